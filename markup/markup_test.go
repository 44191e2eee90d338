package markup

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTechniqueMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.markup")
	defer teardown()
	//
	m := SulPont()
	if s := m.Lilypond(); s != `^ \markup { \upright "sul pont." }` {
		t.Errorf("unexpected markup %q", s)
	}
	if s := Arco().Lilypond(); s != `^ \markup { \upright arco }` {
		t.Errorf("unexpected markup %q", s)
	}
	if s := BoxedTechnique("XFB").Lilypond(); s != `^ \markup { \box { \upright XFB } }` {
		t.Errorf("unexpected markup %q", s)
	}
	if Crine(true).Direction != Down {
		t.Errorf("expected crine below the staff")
	}
}

func TestStringNumbers(t *testing.T) {
	m, err := StringNumber(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.Contents, `"II + III"`) {
		t.Errorf("expected string numbers II + III, have %q", m.Contents)
	}
	if _, err := StringNumber(7); err == nil {
		t.Errorf("expected string number 7 to be rejected")
	}
}

func TestQuoteNormalizes(t *testing.T) {
	decomposed := "cre\u0301scendo"
	q := Quote(decomposed)
	if q != "cr\u00e9scendo" {
		t.Errorf("expected NFC normalized text, have %q", q)
	}
	if Quote(`say "hi"`) != `"say \"hi\""` {
		t.Errorf("unexpected quoting %q", Quote(`say "hi"`))
	}
}

func TestDynamics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.markup")
	defer teardown()
	//
	d, err := ParseDynamic("p")
	if err != nil || d.Lilypond() != `\p` {
		t.Errorf("expected plain dynamic \\p, have %q (%v)", d.Lilypond(), err)
	}
	d, err = ParseDynamic("p ancora")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.Lilypond(), `#:dynamic "p"`) || !strings.Contains(d.Lilypond(), `"ancora"`) {
		t.Errorf("expected ancora dynamic to use its argument, have %q", d.Lilypond())
	}
	d, err = ParseDynamic(`"f"`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.Lilypond(), "“") {
		t.Errorf("expected effort dynamic with typographic quotes, have %q", d.Lilypond())
	}
	if _, err := ParseDynamic("pf"); err == nil {
		t.Errorf("expected unknown dynamic to be rejected")
	}
}

func TestLabels(t *testing.T) {
	if s := StageLabel("A", 2).Lilypond(); s != `^ \markup { \with-color #darkcyan { \fontsize #-3 "[A.2]" } }` {
		t.Errorf("unexpected stage label %q", s)
	}
	if s := InstrumentChangeLabel("Viola").Lilypond(); s != `^ \markup { \box "to viola" }` {
		t.Errorf("unexpected instrument change label %q", s)
	}
}
