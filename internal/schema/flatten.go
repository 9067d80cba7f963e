package schema

// Flatten discovers every leaf field path of one sample payload, depth-first
// in declaration order, prefixing child paths with "parent.". It is pure:
// no I/O, no mutation, deterministic for structurally identical payloads.
//
// A payload with zero declared fields yields an empty sequence. A branch
// whose nested value is itself empty contributes zero leaves.
func Flatten(v Value) ([]string, error) {
	if v == nil || v.Kind() != KindStruct {
		return nil, ErrNotStructured
	}
	paths := []string{}
	walk(v, "", &paths)
	return paths, nil
}

func walk(v Value, prefix string, out *[]string) {
	for _, f := range v.Fields() {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Value.Kind() == KindStruct {
			walk(f.Value, name, out)
			continue
		}
		*out = append(*out, name)
	}
}
