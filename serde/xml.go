package serde

import (
	"encoding/xml"
	"fmt"
	"strings"

	"recordforge/record"
	"recordforge/validate"
)

// Node is one element of the generic XML tree encoding. Field values map
// to child elements named after their serialized key; sequences repeat
// the element once per item.
type Node struct {
	XMLName  xml.Name
	Text     string  `xml:",chardata"`
	Children []*Node `xml:",any"`
}

// MarshalXML encodes an instance as an XML element tree rooted at the
// schema name.
func MarshalXML(inst *record.Instance) ([]byte, error) {
	m, err := ToMap(inst, Unlimited)
	if err != nil {
		return nil, err
	}

	root := mapToNode(inst.Schema().Name(), m)

	return xml.Marshal(root)
}

// UnmarshalXML decodes an XML element tree into an instance of the
// schema. Leaf values arrive as text; pair decoding with a coercing
// validator when fields are not string-typed.
func UnmarshalXML(schema *record.Schema, data []byte) (*record.Instance, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	v := nodeValue(&root)

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("xml root %q holds no element children", root.XMLName.Local)
	}

	return FromMap(schema, m, false)
}

func mapToNode(name string, m map[string]any) *Node {
	node := &Node{XMLName: xml.Name{Local: name}}

	for key, v := range m {
		node.Children = append(node.Children, valueToNodes(key, v)...)
	}

	return node
}

// valueToNodes renders one value under a key; sequences expand into one
// element per item.
func valueToNodes(key string, v any) []*Node {
	switch vv := v.(type) {
	case map[string]any:
		return []*Node{mapToNode(key, vv)}
	case []any:
		var nodes []*Node
		for _, item := range vv {
			nodes = append(nodes, valueToNodes(key, item)...)
		}

		return nodes
	case validate.Tuple:
		var nodes []*Node
		for _, item := range vv {
			nodes = append(nodes, valueToNodes(key, item)...)
		}

		return nodes
	case nil:
		return []*Node{{XMLName: xml.Name{Local: key}}}
	default:
		return []*Node{{XMLName: xml.Name{Local: key}, Text: fmt.Sprintf("%v", v)}}
	}
}

// nodeValue rebuilds a value from one element: children become a mapping
// with repeated names collected into sequences, a pure-text element
// becomes its text.
func nodeValue(n *Node) any {
	if len(n.Children) == 0 {
		return strings.TrimSpace(n.Text)
	}

	m := map[string]any{}

	for _, child := range n.Children {
		key := child.XMLName.Local
		v := nodeValue(child)

		switch existing := m[key].(type) {
		case nil:
			m[key] = v
		case []any:
			m[key] = append(existing, v)
		default:
			m[key] = []any{existing, v}
		}
	}

	return m
}
