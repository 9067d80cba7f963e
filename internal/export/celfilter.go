package export

import (
	"encoding/json"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/davidqiu1993/ros-bag-tools/internal/bag"
)

// Filter wraps a compiled CEL program evaluated per record. The zero value is
// disabled and passes everything.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// NewFilter compiles a CEL expression. An empty expression yields a disabled
// filter. Available variables: channel (string), ts_sec (double), size (int),
// text (string), json (parsed payload).
func NewFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("channel", cel.StringType),
		cel.Variable("ts_sec", cel.DoubleType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		// Expose parsed JSON payload (map/list/values) for field filtering
		cel.Variable("json", cel.DynType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return Filter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Eval evaluates the expression against a record. When disabled, returns true.
func (f Filter) Eval(rec bag.Record) bool {
	if !f.enabled {
		return true
	}
	var jsonObj any
	_ = json.Unmarshal(rec.Payload, &jsonObj)
	out, _, err := f.prog.Eval(map[string]any{
		"channel": rec.Channel,
		"ts_sec":  rec.TimeSec(),
		"size":    int64(len(rec.Payload)),
		"text":    string(rec.Payload),
		"json":    jsonObj,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
