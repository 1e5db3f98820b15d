// Package xmltree is a minimal element tree with a deterministic,
// indented serializer. Attributes keep insertion order.
package xmltree

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// Attr is one attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an XML element holding either text or child elements.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// New creates an element.
func New(name string) *Element {
	return &Element{Name: name}
}

// Attr sets an attribute. Empty values are skipped, so optional
// attributes can be set unconditionally.
func (e *Element) Attr(name, value string) *Element {
	if value == "" {
		return e
	}
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Get returns an attribute value and whether it is present.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Add appends children, ignoring nils.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// SetText sets the character content.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// Walk visits e and its descendants depth first, in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Count returns the number of descendants (including e) named name.
func (e *Element) Count(name string) int {
	n := 0
	e.Walk(func(x *Element) {
		if x.Name == name {
			n++
		}
	})
	return n
}

const indent = "  "

// Write serializes the document with an XML declaration and, when
// stylesheet is set, an xml-stylesheet processing instruction.
func Write(w io.Writer, root *Element, stylesheet string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if stylesheet != "" {
		bw.WriteString(`<?xml-stylesheet type="text/xsl" href="`)
		if err := escape(bw, stylesheet); err != nil {
			return err
		}
		bw.WriteString(`"?>` + "\n")
	}
	if err := write(bw, root, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func write(w *bufio.Writer, e *Element, depth int) error {
	pad := strings.Repeat(indent, depth)
	w.WriteString(pad)
	w.WriteByte('<')
	w.WriteString(e.Name)
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		if err := escape(w, a.Value); err != nil {
			return err
		}
		w.WriteByte('"')
	}

	switch {
	case len(e.Children) == 0 && e.Text == "":
		w.WriteString("/>\n")
	case len(e.Children) == 0:
		w.WriteByte('>')
		if err := escape(w, e.Text); err != nil {
			return err
		}
		w.WriteString("</" + e.Name + ">\n")
	default:
		w.WriteString(">\n")
		if e.Text != "" {
			w.WriteString(pad + indent)
			if err := escape(w, e.Text); err != nil {
				return err
			}
			w.WriteByte('\n')
		}
		for _, c := range e.Children {
			if err := write(w, c, depth+1); err != nil {
				return err
			}
		}
		w.WriteString(pad + "</" + e.Name + ">\n")
	}
	return nil
}

func escape(w io.Writer, s string) error {
	return xml.EscapeText(w, []byte(s))
}
