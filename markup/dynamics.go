package markup

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

var dynamicNames = map[string]bool{
	"ppppp": true, "pppp": true, "ppp": true, "pp": true, "p": true,
	"mp": true, "mf": true, "f": true, "ff": true, "fff": true, "ffff": true,
	"fffff": true, "fp": true, "sf": true, "sff": true, "sfz": true, "sfp": true,
	"rfz": true,
}

// IsDynamicName checks for a dynamic LilyPond knows as a command.
func IsDynamicName(name string) bool {
	return dynamicNames[name]
}

// Dynamic returns a plain dynamic, failing for unknown names.
func Dynamic(name string) (notation.Dynamic, error) {
	if !IsDynamicName(name) {
		return notation.Dynamic{}, fmt.Errorf("unknown dynamic %q", name)
	}
	return notation.Dynamic{Name: name}, nil
}

func dynamicScript(name string, parts ...string) notation.Dynamic {
	return notation.Dynamic{
		Name:   name,
		Scheme: fmt.Sprintf("- #(make-dynamic-script (markup #:line (%s)))", strings.Join(parts, " ")),
	}
}

func schemeString(s string) string {
	return `"` + strings.ReplaceAll(Quote(s), `"`, "") + `"`
}

// Effort returns an effort dynamic: the dynamic in typographic quotes.
func Effort(name string) (notation.Dynamic, error) {
	if !IsDynamicName(name) {
		return notation.Dynamic{}, fmt.Errorf("unknown dynamic %q", name)
	}
	return dynamicScript(`"`+name+`"`,
		`#:normal-text #:larger "“"`,
		`#:dynamic `+schemeString(name),
		`#:normal-text #:larger "”"`,
	), nil
}

// Ancora returns a dynamic followed by "ancora".
func Ancora(name string) (notation.Dynamic, error) {
	return withWord(name, "ancora")
}

// Possibile returns a dynamic followed by "possibile".
func Possibile(name string) (notation.Dynamic, error) {
	return withWord(name, "possibile")
}

// Sempre returns a dynamic followed by "sempre".
func Sempre(name string) (notation.Dynamic, error) {
	return withWord(name, "sempre")
}

func withWord(name, word string) (notation.Dynamic, error) {
	if !IsDynamicName(name) {
		return notation.Dynamic{}, fmt.Errorf("unknown dynamic %q", name)
	}
	return dynamicScript(name+" "+word,
		`#:dynamic `+schemeString(name),
		`#:hspace 0.5`,
		`#:normal-text #:italic `+schemeString(word),
	), nil
}

// Niente is the dynamic at the open end of a circled hairpin.
func Niente() notation.Dynamic {
	return dynamicScript("niente", `#:normal-text #:italic "niente"`)
}

// ParseDynamic understands plain names as well as "f ancora",
// "ff possibile", "mf sempre", `"f"` (effort) and "niente".
func ParseDynamic(spec string) (notation.Dynamic, error) {
	spec = strings.TrimSpace(spec)
	if spec == "niente" {
		return Niente(), nil
	}
	if strings.HasPrefix(spec, `"`) && strings.HasSuffix(spec, `"`) && len(spec) > 2 {
		return Effort(strings.Trim(spec, `"`))
	}
	name, word, found := strings.Cut(spec, " ")
	if !found {
		return Dynamic(name)
	}
	switch strings.TrimSpace(word) {
	case "ancora":
		return Ancora(name)
	case "possibile":
		return Possibile(name)
	case "sempre":
		return Sempre(name)
	}
	return notation.Dynamic{}, fmt.Errorf("unknown dynamic %q", spec)
}
