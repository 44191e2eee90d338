package markup

import (
	"fmt"
	"strings"
)

// Technique makes upright markup above the staff, the way string technique
// indications are written.
func Technique(text string) Markup {
	return String(text).Upright().Up()
}

// BoxedTechnique is like Technique, with a box.
func BoxedTechnique(text string) Markup {
	return String(text).Upright().Boxed().Up()
}

// Technique markup of string playing.
func Arco() Markup            { return Technique("arco") }
func Pizz() Markup            { return Technique("pizz.") }
func SulPont() Markup         { return Technique("sul pont.") }
func MoltoPont() Markup       { return Technique("molto pont.") }
func PocoPont() Markup        { return Technique("poco pont.") }
func EstrSulPont() Markup     { return Technique("estr. sul pont.") }
func SulTasto() Markup        { return Technique("sul tasto") }
func MoltoTasto() Markup      { return Technique("molto tasto") }
func PosOrd() Markup          { return Technique("pos. ord.") }
func Ord() Markup             { return Technique("ord.") }
func Flaut() Markup           { return Technique("flaut.") }
func XFB() Markup             { return Technique("XFB") }
func TastoXFB() Markup        { return Technique("tasto + XFB") }
func ColLegnoBattuto() Markup { return Technique("col legno battuto") }
func NonVib() Markup          { return Technique("non vib.") }
func VibPoco() Markup         { return Technique("vib. poco") }
func MoltoVib() Markup        { return Technique("molto vib.") }
func TremOrd() Markup         { return Technique("trem. ord.") }
func ScratchMoltiss() Markup  { return Technique("scratch moltiss.") }
func Spazzolato() Markup      { return Technique("spazzolato") }
func Leggieriss() Markup      { return Technique("leggieriss.") }

// Crine asks for playing with the hair of the bow. Below the staff if
// down is set.
func Crine(down bool) Markup {
	m := Technique("crine")
	if down {
		m = m.Down()
	}
	return m
}

var romanNumerals = []string{"", "I", "II", "III", "IV", "V", "VI"}

// StringNumber returns string indications like "II + III".
func StringNumber(strs ...int) (Markup, error) {
	if len(strs) == 0 {
		return Markup{}, fmt.Errorf("string number markup needs at least one string")
	}
	parts := make([]string, len(strs))
	for i, n := range strs {
		if n < 1 || n >= len(romanNumerals) {
			return Markup{}, fmt.Errorf("invalid string number %d", n)
		}
		parts[i] = romanNumerals[n]
	}
	return Technique(strings.Join(parts, " + ")), nil
}

var techniqueLibrary = map[string]func() Markup{
	"arco":              Arco,
	"pizz.":             Pizz,
	"sul pont.":         SulPont,
	"molto pont.":       MoltoPont,
	"poco pont.":        PocoPont,
	"estr. sul pont.":   EstrSulPont,
	"sul tasto":         SulTasto,
	"molto tasto":       MoltoTasto,
	"pos. ord.":         PosOrd,
	"ord.":              Ord,
	"flaut.":            Flaut,
	"XFB":               XFB,
	"tasto + XFB":       TastoXFB,
	"col legno battuto": ColLegnoBattuto,
	"crine":             func() Markup { return Crine(false) },
	"non vib.":          NonVib,
	"vib. poco":         VibPoco,
	"molto vib.":        MoltoVib,
	"trem. ord.":        TremOrd,
	"scratch moltiss.":  ScratchMoltiss,
	"spazzolato":        Spazzolato,
	"leggieriss.":       Leggieriss,
}

// Lookup finds a technique markup by its text. Unknown texts are made into
// technique markup as well, which is reported via the trace.
func Lookup(text string) Markup {
	if mk, ok := techniqueLibrary[text]; ok {
		return mk()
	}
	tracer().Infof("technique %q not in library", text)
	return Technique(text)
}

// --- Score labels ----------------------------------------------------------

// StageLabel labels the start of a stage, e.g. "[A.2]".
func StageLabel(segment string, stage int) Markup {
	text := fmt.Sprintf("[%d]", stage)
	if segment != "" {
		text = fmt.Sprintf("[%s.%d]", segment, stage)
	}
	return String(text).FontSize(-3).WithColor("darkcyan").Up()
}

// ClockTimeLabel labels a measure with its start time.
func ClockTimeLabel(clock string) Markup {
	return String(clock).FontSize(-2).Down()
}

// InstrumentChangeLabel labels a change of instrument.
func InstrumentChangeLabel(name string) Markup {
	return String("to " + strings.ToLower(name)).Boxed().Up()
}
