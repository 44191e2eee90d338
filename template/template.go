/*
Package template creates empty score skeletons for segments.

Every score built by a template has the same outer shape:

	Score "Score" <<
	    GlobalContext "GlobalContext" <<
	        GlobalSkips "GlobalSkips" { }
	        GlobalRests "GlobalRests" { }
	    >>
	    MusicContext "MusicContext" <<
	        Staff "…MusicStaff" { Voice "…MusicVoice" { } }
	        …
	    >>
	>>

Time signatures, metronome marks and stage labels live in the global
context; music lives in the voices.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/notation"
)

// tracer writes to trace with key 'scorekit.template'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.template")
}

// Names of the global contexts, shared by all templates.
const (
	ScoreName         = "Score"
	GlobalContextName = "GlobalContext"
	GlobalSkipsName   = "GlobalSkips"
	GlobalRestsName   = "GlobalRests"
	MusicContextName  = "MusicContext"
)

// VoiceSpec describes a voice of a staff. Gaps in voices with FillSkips
// set are filled with skips instead of rests.
type VoiceSpec struct {
	Name      string
	FillSkips bool
}

// StaffSpec describes a staff, its default clef and default instrument
// (a key of the instrument library, may be empty).
type StaffSpec struct {
	Name       string
	Clef       notation.Clef
	Instrument string
	Voices     []VoiceSpec
}

// ScoreTemplate builds empty scores.
type ScoreTemplate interface {
	Name() string
	Build() *notation.Container
	Staves() []StaffSpec
}

// Staves is a score template made from a list of staff specifications.
// If Group is set, the staves are wrapped into a staff group of that name.
type Staves struct {
	TemplateName string
	Group        string
	Specs        []StaffSpec
}

var _ ScoreTemplate = Staves{}

// Name returns the template's name.
func (t Staves) Name() string { return t.TemplateName }

// Staves returns the staff specifications.
func (t Staves) Staves() []StaffSpec { return t.Specs }

// Build creates an empty score.
func (t Staves) Build() *notation.Container {
	score := notation.NewSimultaneousContext("Score", ScoreName)
	global := notation.NewSimultaneousContext("GlobalContext", GlobalContextName)
	global.Append(
		notation.NewContext("GlobalSkips", GlobalSkipsName),
		notation.NewContext("GlobalRests", GlobalRestsName),
	)
	music := notation.NewSimultaneousContext("MusicContext", MusicContextName)
	parent := music
	if t.Group != "" {
		group := notation.NewSimultaneousContext("StaffGroup", t.Group)
		music.Append(group)
		parent = group
	}
	for _, spec := range t.Specs {
		var staff *notation.Container
		if len(spec.Voices) > 1 {
			staff = notation.NewSimultaneousContext("Staff", spec.Name)
		} else {
			staff = notation.NewContext("Staff", spec.Name)
		}
		for _, v := range spec.Voices {
			staff.Append(notation.NewContext("Voice", v.Name))
		}
		parent.Append(staff)
	}
	score.Append(global, music)
	tracer().Debugf("template %s: built score with %d staves", t.TemplateName, len(t.Specs))
	return score
}

// Voices lists the names of all voices in score order.
func Voices(t ScoreTemplate) []string {
	var names []string
	for _, s := range t.Staves() {
		for _, v := range s.Voices {
			names = append(names, v.Name)
		}
	}
	return names
}

// FindVoice returns the specification of a voice and its staff.
func FindVoice(t ScoreTemplate, name string) (VoiceSpec, StaffSpec, bool) {
	for _, s := range t.Staves() {
		for _, v := range s.Voices {
			if v.Name == name {
				return v, s, true
			}
		}
	}
	return VoiceSpec{}, StaffSpec{}, false
}

// Staff creates the specification of a single-voice staff for an instrument
// named like "Violin", giving "ViolinMusicStaff" and "ViolinMusicVoice".
func Staff(name string, clef notation.Clef, instrumentKey string) StaffSpec {
	return StaffSpec{
		Name:       name + "MusicStaff",
		Clef:       clef,
		Instrument: instrumentKey,
		Voices:     []VoiceSpec{{Name: name + "MusicVoice"}},
	}
}

// SingleStaff is a score with one staff and one voice.
func SingleStaff() ScoreTemplate {
	return Staves{
		TemplateName: "single-staff",
		Specs:        []StaffSpec{Staff("", notation.Treble, "")},
	}
}

// TwoVoiceStaff is a score with one staff holding two voices. The second
// voice fills its gaps with skips.
func TwoVoiceStaff() ScoreTemplate {
	return Staves{
		TemplateName: "two-voice-staff",
		Specs: []StaffSpec{{
			Name: "MusicStaff",
			Clef: notation.Treble,
			Voices: []VoiceSpec{
				{Name: "MusicVoiceOne"},
				{Name: "MusicVoiceTwo", FillSkips: true},
			},
		}},
	}
}

// StringTrio is a score for violin, viola and cello.
func StringTrio() ScoreTemplate {
	return Staves{
		TemplateName: "string-trio",
		Group:        "StringTrioStaffGroup",
		Specs: []StaffSpec{
			Staff("Violin", notation.Treble, "violin"),
			Staff("Viola", notation.Alto, "viola"),
			Staff("Cello", notation.Bass, "cello"),
		},
	}
}

var templates = map[string]func() ScoreTemplate{
	"single-staff":    SingleStaff,
	"two-voice-staff": TwoVoiceStaff,
	"string-trio":     StringTrio,
}

// Lookup finds a template by name.
func Lookup(name string) (ScoreTemplate, error) {
	mk, ok := templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown score template %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the known template names.
func Names() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
