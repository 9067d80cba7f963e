package schema

import (
	"github.com/valyala/fastjson"
)

// Document parses JSON payloads into Values. The zero value is ready to use.
// Parsed Values are invalidated by the next Parse call, which keeps exactly
// one decoded payload live per document — reuse one Document per stream.
type Document struct {
	p fastjson.Parser
}

// Parse decodes one payload. Payloads that are not JSON objects at the root
// (arrays, bare scalars, malformed bytes) return ErrNotStructured.
func (d *Document) Parse(payload []byte) (Value, error) {
	v, err := d.p.ParseBytes(payload)
	if err != nil {
		return nil, ErrNotStructured
	}
	if v.Type() != fastjson.TypeObject {
		return nil, ErrNotStructured
	}
	return jsonValue{v: v}, nil
}

type jsonValue struct {
	v *fastjson.Value
}

func (j jsonValue) Kind() Kind {
	if j.v.Type() == fastjson.TypeObject {
		return KindStruct
	}
	return KindScalar
}

func (j jsonValue) Fields() []Field {
	o, err := j.v.Object()
	if err != nil {
		return nil
	}
	fields := make([]Field, 0, o.Len())
	// Visit iterates in document order, which is the payload's declaration order.
	o.Visit(func(key []byte, v *fastjson.Value) {
		fields = append(fields, Field{Name: string(key), Value: jsonValue{v: v}})
	})
	return fields
}

func (j jsonValue) Field(name string) (Value, bool) {
	o, err := j.v.Object()
	if err != nil {
		return nil, false
	}
	v := o.Get(name)
	if v == nil {
		return nil, false
	}
	return jsonValue{v: v}, true
}

func (j jsonValue) Scalar() string {
	switch j.v.Type() {
	case fastjson.TypeString:
		return string(j.v.GetStringBytes())
	case fastjson.TypeNull:
		return ""
	default:
		// numbers, booleans, and arrays keep their JSON text
		return j.v.String()
	}
}
