/*
Package markup builds LilyPond markup and keeps a library of the markup
strings of instrumental technique, dynamics and score labels.

Markup values are immutable; every operation returns a new markup. Text is
normalized to Unicode NFC before it is quoted, as typographic quotes and
accented technique names reach us from different editors.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package markup

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/notation"
	"golang.org/x/text/unicode/norm"
)

// tracer writes to trace with key 'scorekit.markup'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.markup")
}

// Direction places markup above or below the staff.
type Direction uint8

const (
	Neutral Direction = iota
	Up
	Down
)

func (d Direction) prefix() string {
	switch d {
	case Up:
		return "^"
	case Down:
		return "_"
	}
	return "-"
}

// Markup is a LilyPond markup expression. Contents holds the markup body
// without the `\markup` command.
type Markup struct {
	Contents  string
	Direction Direction
}

// String creates markup from plain text.
func String(text string) Markup {
	return Markup{Contents: Quote(text)}
}

// Raw wraps an existing markup expression.
func Raw(contents string) Markup {
	return Markup{Contents: contents}
}

// Quote normalizes text to NFC and quotes it as a markup string if needed.
func Quote(text string) string {
	text = norm.NFC.String(text)
	if text == "" {
		return `""`
	}
	if strings.ContainsAny(text, " \t\\{}[]#\"$%'") {
		return `"` + strings.ReplaceAll(strings.ReplaceAll(text, `\`, `\\`), `"`, `\"`) + `"`
	}
	return text
}

// Site implements notation.Indicator.
func (m Markup) Site() notation.Site { return notation.SiteAfter }

// Lilypond implements notation.Indicator.
func (m Markup) Lilypond() string {
	return fmt.Sprintf(`%s \markup { %s }`, m.Direction.prefix(), m.Contents)
}

// Up places m above the staff.
func (m Markup) Up() Markup {
	m.Direction = Up
	return m
}

// Down places m below the staff.
func (m Markup) Down() Markup {
	m.Direction = Down
	return m
}

func (m Markup) command(cmd string) Markup {
	m.Contents = cmd + " " + group(m.Contents)
	return m
}

func group(contents string) string {
	if strings.ContainsAny(contents, " ") && !strings.HasPrefix(contents, `"`) {
		return "{ " + contents + " }"
	}
	return contents
}

// Bold sets m in bold face.
func (m Markup) Bold() Markup { return m.command(`\bold`) }

// Italic sets m in italics.
func (m Markup) Italic() Markup { return m.command(`\italic`) }

// Upright sets m upright.
func (m Markup) Upright() Markup { return m.command(`\upright`) }

// Boxed draws a box around m.
func (m Markup) Boxed() Markup { return m.command(`\box`) }

// Larger increases the font size of m by one step.
func (m Markup) Larger() Markup { return m.command(`\larger`) }

// Whiteout blanks the background of m.
func (m Markup) Whiteout() Markup { return m.command(`\whiteout`) }

// FontSize sets a relative font size.
func (m Markup) FontSize(n int) Markup {
	return m.command(fmt.Sprintf(`\fontsize #%d`, n))
}

// WithColor colors m.
func (m Markup) WithColor(color string) Markup {
	return m.command(fmt.Sprintf(`\with-color #%s`, color))
}

// Line concatenates markups on one line.
func Line(ms ...Markup) Markup {
	parts := make([]string, len(ms))
	dir := Neutral
	for i, m := range ms {
		parts[i] = m.Contents
		if m.Direction != Neutral {
			dir = m.Direction
		}
	}
	return Markup{Contents: `\line { ` + strings.Join(parts, " ") + ` }`, Direction: dir}
}

// Fraction stacks two numbers.
func Fraction(num, den int) Markup {
	return Markup{Contents: fmt.Sprintf(`\fraction %d %d`, num, den)}
}
