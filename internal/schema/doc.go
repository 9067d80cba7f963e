// Package schema discovers and flattens the field structure of bag payloads.
//
// Payloads are structured records with a finite, ordered set of named fields,
// exposed through the Value interface. Flatten walks one sample payload
// depth-first in declaration order and returns the dotted paths of every leaf
// field; Path resolves one such dotted path against later payloads of the
// same channel.
//
// The production Value implementation is backed by fastjson, whose object
// visitation preserves document field order. Flatten and Path depend only on
// the interface, never on fastjson.
//
//	var doc schema.Document
//	v, _ := doc.Parse(payload)
//	fields, _ := schema.Flatten(v)       // ["a", "b.c"]
//	p := schema.ParsePath(fields[1])     // split once
//	s, _ := p.Resolve(v)                 // scalar text at b.c
package schema
