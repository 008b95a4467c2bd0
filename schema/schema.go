// Package schema loads layout inputs from JSON documents:
//
//	{
//	  "name": "header",
//	  "fields": [
//	    {"name": "version", "width": 3},
//	    {"name": "kind", "enum": "kind"},
//	    {"name": "state", "enum": "state", "bits": 4}
//	  ],
//	  "enums": {
//	    "kind": [{"label": "Data"}, {"label": "Ack"}],
//	    "state": [{"label": "Idle", "value": 1}, {"label": "Busy", "value": 0}]
//	  }
//	}
//
// A field names exactly one of width or enum; structural checks are left to
// layout.Parse so that every problem is reported in one pass.
package schema

import (
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// Document is the JSON form of a layout input
type Document struct {
	Enums  map[string][]Case `json:"enums,omitempty"`
	Name   string            `json:"name"`
	Fields []Field           `json:"fields"`
}

// Field is one entry of the fields array
type Field struct {
	Width *uint  `json:"width,omitempty"`
	Bits  *uint  `json:"bits,omitempty"`
	Name  string `json:"name"`
	Enum  string `json:"enum,omitempty"`
}

// Case is one alternative of an enum
type Case struct {
	Value *uint64 `json:"value,omitempty"`
	Label string  `json:"label"`
}

// Input converts the document. Enums are emitted in key order.
func (d *Document) Input() layout.Input {
	in := layout.Input{Name: d.Name, Fields: make([]layout.RawField, len(d.Fields))}
	for i, f := range d.Fields {
		in.Fields[i] = layout.RawField{Name: f.Name, Width: f.Width, Set: f.Enum, Bits: f.Bits}
	}

	for _, id := range slices.Sorted(maps.Keys(d.Enums)) {
		set := &layout.AlternativeSet{ID: id}
		for _, c := range d.Enums[id] {
			set.Alternatives = append(set.Alternatives, layout.Alternative{Label: c.Label, Discriminant: c.Value})
		}
		in.Sets = append(in.Sets, set)
	}
	return in
}

// Decode reads a document from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Load("decode schema", err)
	}
	return &doc, nil
}

// Load reads a layout input from r
func Load(r io.Reader) (layout.Input, error) {
	doc, err := Decode(r)
	if err != nil {
		return layout.Input{}, err
	}
	return doc.Input(), nil
}

// LoadFile reads a layout input from a file
func LoadFile(path string) (layout.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return layout.Input{}, errors.Load("open "+path, err)
	}
	defer f.Close()
	return Load(f)
}
