package xmlconfig

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Value is a matched XML subtree converted to native data. The concrete
// variants are Object, Array, String, Bool and Number; a nil Value means
// "no result". Every variant marshals naturally to JSON.
type Value interface {
	value()
}

// Object is the conversion of an XML element that carries attributes or
// child elements. Attribute values are stored under "@"-prefixed keys,
// children under their element name (repeated siblings collapse into an
// Array), and mixed text content under "#text".
type Object map[string]Value

// Array is an ordered collection of converted nodes.
type Array []Value

// String holds text and attribute content.
type String string

// Bool is a boolean configuration value. Node conversion never produces it;
// XML content always converts to String. It exists for programmatic values
// that flow through ToBool or are marshalled alongside query results.
type Bool bool

// Number is a numeric configuration value. Like Bool it is never produced
// by node conversion and is intended for programmatically constructed data.
type Number float64

func (Object) value() {}
func (Array) value()  {}
func (String) value() {}
func (Bool) value()   {}
func (Number) value() {}

// ToBool reports whether v is the string "true" or the boolean true. Every
// other input, including "True", "1" and numbers, yields false. Existing
// configuration documents rely on lowercase string booleans, so the mapping
// is deliberately strict.
func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	case Bool:
		return bool(t)
	case String:
		return t == "true"
	}
	return false
}

// convertNode turns one matched node into a Value. Elements follow the
// element to Object, repeated-sibling to Array, "@attribute" and "#text"
// conventions; leaf elements without attributes convert to the String of
// their trimmed text.
func convertNode(n *xmlquery.Node) Value {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return String(strings.TrimSpace(n.Data))
	case xmlquery.AttributeNode:
		return String(n.InnerText())
	}

	obj := Object{}
	for _, a := range n.Attr {
		obj["@"+a.Name.Local] = String(a.Value)
	}

	var text strings.Builder
	var order []string
	children := map[string][]Value{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			if _, seen := children[c.Data]; !seen {
				order = append(order, c.Data)
			}
			children[c.Data] = append(children[c.Data], convertNode(c))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		}
	}

	trimmed := strings.TrimSpace(text.String())
	if len(obj) == 0 && len(children) == 0 {
		return String(trimmed)
	}
	for _, name := range order {
		vs := children[name]
		if len(vs) == 1 {
			obj[name] = vs[0]
		} else {
			obj[name] = Array(vs)
		}
	}
	if trimmed != "" {
		obj["#text"] = String(trimmed)
	}
	return obj
}
