// pattern: Functional Core

// Package jsontree builds a collapsible tree from a decoded JSON value.
//
// Object keys are always listed in lexicographic order and array elements in
// index order, so rebuilding a tree from the same value yields the same shape.
// A fresh tree has its root expanded and every descendant collapsed.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// InvalidLabel is shown in place of a tree when the input is not valid JSON.
const InvalidLabel = "Invalid JSON"

// Kind identifies what a Node represents.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindInvalid
)

// Node is one line of the tree. Primitive nodes carry Literal; container
// nodes carry Children and an expansion flag.
type Node struct {
	Label    string
	Kind     Kind
	Literal  string
	Children []*Node
	Expanded bool
}

// IsContainer reports whether the node can be expanded.
func (n *Node) IsContainer() bool {
	return n.Kind == KindArray || n.Kind == KindObject
}

// Header is the single-line text for the node.
func (n *Node) Header() string {
	switch n.Kind {
	case KindArray:
		return fmt.Sprintf("%s: Array(%d)", n.Label, len(n.Children))
	case KindObject:
		return n.Label + ": Object"
	case KindInvalid:
		return InvalidLabel
	default:
		return n.Label + ": " + n.Literal
	}
}

// Container holds a rendered tree.
type Container interface {
	SetRoot(root *Node)
}

// Render replaces the container's content with a freshly built tree.
func Render(c Container, value any, label string, expanded bool) {
	c.SetRoot(Build(value, label, expanded))
}

// Invalid returns the placeholder tree used for unparseable input.
func Invalid() *Node {
	return &Node{Label: InvalidLabel, Kind: KindInvalid}
}

// Build constructs the tree for value. Only the returned root takes the
// expanded flag; all descendants start collapsed.
func Build(value any, label string, expanded bool) *Node {
	switch v := value.(type) {
	case nil:
		return &Node{Label: label, Kind: KindNull, Literal: "null"}
	case bool:
		return &Node{Label: label, Kind: KindBool, Literal: strconv.FormatBool(v)}
	case string:
		return &Node{Label: label, Kind: KindString, Literal: quote(v)}
	case json.Number:
		return &Node{Label: label, Kind: KindNumber, Literal: formatNumberLiteral(v)}
	case float64:
		return &Node{Label: label, Kind: KindNumber, Literal: FormatNumber(v)}
	case []any:
		n := &Node{Label: label, Kind: KindArray, Expanded: expanded, Children: make([]*Node, 0, len(v))}
		for i, item := range v {
			n.Children = append(n.Children, Build(item, fmt.Sprintf("[%d]", i), false))
		}
		return n
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &Node{Label: label, Kind: KindObject, Expanded: expanded, Children: make([]*Node, 0, len(v))}
		for _, k := range keys {
			n.Children = append(n.Children, Build(v[k], k, false))
		}
		return n
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Node{Label: label, Kind: KindNumber, Literal: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Node{Label: label, Kind: KindNumber, Literal: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32:
		return &Node{Label: label, Kind: KindNumber, Literal: FormatNumber(rv.Float())}
	}
	return &Node{Label: label, Kind: KindString, Literal: fmt.Sprint(value)}
}

// Parse decodes a single JSON document. Numbers are kept as json.Number so
// large integers are not rounded before display.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse json: unexpected data after top-level value")
	}
	return v, nil
}

// FormatNumber renders f the way JavaScript's Number#toString does:
// plain decimals between 1e-6 and 1e21, exponent form outside.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNumberLiteral(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return FormatNumber(f)
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
