package schema

import (
	"fmt"
	"strings"
)

// Path is a pre-parsed dotted field path. Parsing happens once per export, so
// per-record resolution costs O(depth) with no repeated string splitting.
type Path struct {
	raw  string
	segs []string
}

// ParsePath splits a dotted path into segments.
func ParsePath(s string) Path {
	return Path{raw: s, segs: strings.Split(s, ".")}
}

// String returns the original dotted path.
func (p Path) String() string { return p.raw }

// FieldNotFoundError reports a cached path that no longer resolves to a leaf
// in a payload. It means the schema cached from the first record does not
// match this record: the export must abort rather than silently corrupt its
// output.
type FieldNotFoundError struct {
	Path    string
	Segment string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("schema: field %q not found resolving path %q", e.Segment, e.Path)
}

// Resolve walks the payload one segment per nesting level and returns the
// textual form of the leaf value. A missing intermediate segment, or a cached
// leaf that turned into a branch, fails with FieldNotFoundError; there is no
// null-fill.
func (p Path) Resolve(v Value) (string, error) {
	cur := v
	for _, seg := range p.segs {
		next, ok := cur.Field(seg)
		if !ok {
			return "", &FieldNotFoundError{Path: p.raw, Segment: seg}
		}
		cur = next
	}
	if cur.Kind() == KindStruct {
		return "", &FieldNotFoundError{Path: p.raw, Segment: p.segs[len(p.segs)-1]}
	}
	return cur.Scalar(), nil
}
