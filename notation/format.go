package notation

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

// Lilypond returns the LilyPond source of a component tree.
//
// Output is deterministic: one leaf body per line, indicators on lines of
// their own before or after the body (in attachment order), ties last.
func Lilypond(c Component) string {
	var sb strings.Builder
	f := formatter{w: &sb}
	f.component(c, 0)
	return sb.String()
}

// WriteLilypond writes the LilyPond source of c to w, indented by indent
// levels.
func WriteLilypond(w io.Writer, c Component, indent int) error {
	f := formatter{w: w}
	f.component(c, indent)
	return f.err
}

type formatter struct {
	w   io.Writer
	err error
}

func (f *formatter) line(indent int, s string) {
	if f.err != nil {
		return
	}
	for _, ln := range strings.Split(s, "\n") {
		if _, f.err = fmt.Fprintf(f.w, "%s%s\n", strings.Repeat(indentUnit, indent), ln); f.err != nil {
			return
		}
	}
}

func (f *formatter) component(c Component, indent int) {
	switch x := c.(type) {
	case *Leaf:
		f.leaf(x, indent)
	case *Container:
		f.container(x, indent)
	}
}

func (f *formatter) leaf(l *Leaf, indent int) {
	for _, ind := range l.indicators {
		if ind.Site() == SiteBefore {
			f.line(indent, ind.Lilypond())
		}
	}
	f.line(indent, l.Body())
	for _, ind := range l.indicators {
		if ind.Site() == SiteAfter {
			f.line(indent, ind.Lilypond())
		}
	}
	if l.Tied {
		f.line(indent, "~")
	}
}

func (f *formatter) container(c *Container, indent int) {
	open, close := "{", "}"
	if c.Simultaneous {
		open, close = "<<", ">>"
	}
	if c.Prefix != "" {
		f.line(indent, c.Prefix)
	}
	if c.Context != "" {
		f.line(indent, fmt.Sprintf(`\context %s = "%s"`, c.Context, c.Name))
	}
	f.line(indent, open)
	for _, ch := range c.children {
		f.component(ch, indent+1)
	}
	f.line(indent, close)
}
