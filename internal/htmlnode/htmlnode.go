package htmlnode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingValue is returned when a leaf without a value is rendered
	ErrMissingValue = errors.New("leaf node has no value")
	// ErrMissingTag is returned when a parent without a tag is rendered
	ErrMissingTag = errors.New("parent node has no tag")
)

// Node is an element of the output tree
type Node interface {
	HTML() (string, error)
}

// Attribute is a single key="value" pair on an element
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps element attributes in insertion order
type Attributes []Attribute

// Attr is shorthand for building an Attribute
func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Set replaces the value of an existing key or appends a new pair
func (a Attributes) Set(key, value string) Attributes {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attribute{Key: key, Value: value})
}

// Get returns the value stored for key
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// HTML renders the attributes with a single leading space, or "" when empty.
// Values are written verbatim; nothing is escaped.
func (a Attributes) HTML() string {
	if len(a) == 0 {
		return ""
	}

	var b strings.Builder
	for _, attr := range a {
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteString(`"`)
	}
	return b.String()
}

// Leaf is a terminal element. An empty Tag renders Value as raw text.
type Leaf struct {
	Tag   string
	Value string
	Attrs Attributes

	// set by NewLeaf and Text; a zero Leaf has no value
	hasValue bool
}

// NewLeaf creates a leaf element with a value
func NewLeaf(tag, value string, attrs ...Attribute) *Leaf {
	return &Leaf{
		Tag:      tag,
		Value:    value,
		Attrs:    Attributes(attrs),
		hasValue: true,
	}
}

// Text creates a tag-less leaf that renders value unchanged
func Text(value string) *Leaf {
	return NewLeaf("", value)
}

// HasValue reports whether the leaf carries a value
func (l *Leaf) HasValue() bool {
	return l.hasValue
}

// HTML renders the leaf
func (l *Leaf) HTML() (string, error) {
	if !l.hasValue {
		return "", ErrMissingValue
	}
	if l.Tag == "" {
		return l.Value, nil
	}
	return "<" + l.Tag + l.Attrs.HTML() + ">" + l.Value + "</" + l.Tag + ">", nil
}

// Parent is a container element with ordered children
type Parent struct {
	Tag      string
	Children []Node
	Attrs    Attributes
}

// NewParent creates a container element
func NewParent(tag string, children []Node, attrs ...Attribute) *Parent {
	return &Parent{
		Tag:      tag,
		Children: children,
		Attrs:    Attributes(attrs),
	}
}

// HTML renders the parent and all of its descendants
func (p *Parent) HTML() (string, error) {
	if p.Tag == "" {
		return "", ErrMissingTag
	}

	var b strings.Builder
	b.WriteString("<" + p.Tag + p.Attrs.HTML() + ">")
	for i, child := range p.Children {
		html, err := child.HTML()
		if err != nil {
			return "", fmt.Errorf("<%s> child %d: %w", p.Tag, i, err)
		}
		b.WriteString(html)
	}
	b.WriteString("</" + p.Tag + ">")

	return b.String(), nil
}
