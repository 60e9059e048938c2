// Package etree converts XML travel-API responses into the generic value
// shape used by hotel-array search.
package etree

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	voygen "github.com/iamneilroberts/voygen-sub008"
)

var _ voygen.ResponseDecoder = (*Decoder)(nil)

// Decoder maps XML elements to map[string]any values. Attributes and child
// elements become keys; repeated children become slices; text-only
// elements become strings. Namespace prefixes are dropped.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Accepts reports whether the response looks like XML.
func (d *Decoder) Accepts(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return bytes.HasPrefix(trimmed, []byte("<?xml")) ||
		(bytes.HasPrefix(trimmed, []byte("<")) && !bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")) && !bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")))
}

// Decode parses the body and returns the root element's value keyed by
// the root tag.
func (d *Decoder) Decode(body []byte) (any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, voygen.Errorf(voygen.EDECODE, "invalid XML response: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, voygen.Errorf(voygen.EDECODE, "XML response has no root element")
	}
	return map[string]any{root.Tag: elementValue(root)}, nil
}

func elementValue(el *etree.Element) any {
	children := el.ChildElements()
	if len(children) == 0 && len(el.Attr) == 0 {
		return strings.TrimSpace(el.Text())
	}

	obj := make(map[string]any, len(children)+len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		obj[a.Key] = a.Value
	}
	for _, c := range children {
		v := elementValue(c)
		switch prev := obj[c.Tag].(type) {
		case nil:
			obj[c.Tag] = v
		case []any:
			obj[c.Tag] = append(prev, v)
		default:
			obj[c.Tag] = []any{prev, v}
		}
	}
	if text := strings.TrimSpace(el.Text()); text != "" && len(children) == 0 {
		obj["text"] = text
	}
	return obj
}
