package segdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleStaff = `
[segment]
name = "A"
template = "single-staff"
time_signatures = ["4/8", "3/8", "4/8", "3/8"]

[[command]]
type = "rhythm"
voice = "MusicVoice"
maker = "notes"
value = "1/8"
beam = true

[[command]]
type = "pitches"
voice = "MusicVoice"
pitches = "19 13 15 16 17 23"
cyclic = true
`

func TestDefinitionRunsSegment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.segdef")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "a.toml")
	require.NoError(t, os.WriteFile(path, []byte(singleStaff), 0o644))
	def, err := Load(path)
	require.NoError(t, err)
	m, err := def.Maker(nil)
	require.NoError(t, err)
	require.Len(t, m.Wrappers(), 2)
	res, err := m.Run()
	require.NoError(t, err)
	voice := res.Voice("MusicVoice")
	assert.True(t, strings.HasPrefix(voice, "\\context Voice = \"MusicVoice\"\n{\n    \\clef \"treble\"\n    g''8\n    [\n    cs''8\n"),
		"unexpected voice:\n%s", voice)
	assert.Equal(t, 16, strings.Count(voice, "8\n"))
}

func TestSegmentSettings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.segdef")
	defer teardown()
	//
	def, err := Parse(`
[segment]
name = "B"
template = "string-trio"
time_signatures = ["4/4", "4/4", "3/4"]
measures_per_stage = [2, 1]
repeat_pitch_classes = "color"
spacing = "1/16"
final_barline = "|."
final_markup = "Wien"

[metronome_marks]
slow = "4=60"

[[metronome_mark_map]]
measure = 1
mark = "slow"

[[volta]]
start = 1
stop = 2

[[command]]
type = "rhythm"
maker = "talea"
counts = [3, -1]
denominator = 16
[[command.scope]]
voice = "ViolinMusicVoice"
[[command.scope]]
voice = "CelloMusicVoice"
stages = [2]

[[command]]
type = "dynamics"
voice = "ViolinMusicVoice"
stages = [1, 2]
names = ["p"]
selector = "plt:0"
`)
	require.NoError(t, err)
	cfg, err := def.Config(nil)
	require.NoError(t, err)
	assert.Equal(t, "string-trio", cfg.Template.Name())
	assert.Len(t, cfg.TimeSignatures, 3)
	require.NotNil(t, cfg.Spacing)
	assert.True(t, cfg.Spacing.Equal(notation.D(1, 16)))
	assert.Equal(t, 60, cfg.MetronomeMarks["slow"].UnitsPerMinute)
	assert.Equal(t, "slow", cfg.MetronomeMarkMap[0].Mark)
	assert.Equal(t, 2, cfg.VoltaMeasures[0].Stop)
	require.NotNil(t, cfg.FinalMarkup)
	//
	cmd, scope, err := buildCommand(def.Commands[0])
	require.NoError(t, err)
	rc, ok := cmd.(*rhythm.Command)
	require.True(t, ok)
	assert.Equal(t, "talea [3 -1]/16", rc.Maker.String())
	require.Len(t, scope, 2)
	assert.Equal(t, "CelloMusicVoice", scope[1].Voice)
	assert.Equal(t, 2, scope[1].Start)
	//
	m, err := def.Maker(nil)
	require.NoError(t, err)
	res, err := m.Run()
	require.NoError(t, err)
	assert.Contains(t, res.Voice("ViolinMusicVoice"), `\p`)
}

func TestInvalidDefinitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.segdef")
	defer teardown()
	//
	header := "[segment]\nname = \"X\"\ntemplate = \"single-staff\"\ntime_signatures = [\"2/4\"]\n"
	invalid := map[string]string{
		"unknown key":     header + "colour = true\n",
		"no name":         "[segment]\ntemplate = \"single-staff\"\ntime_signatures = [\"2/4\"]\n",
		"unknown type":    header + "[[command]]\ntype = \"sing\"\nvoice = \"MusicVoice\"\n",
		"no scope":        header + "[[command]]\ntype = \"tie\"\n",
		"repeat policy":   strings.Replace(header, "[segment]\n", "[segment]\nrepeat_pitch_classes = \"loud\"\n", 1),
		"too many stages": header + "[[command]]\ntype = \"tie\"\nvoice = \"MusicVoice\"\nstages = [1, 2, 3]\n",
		"syntax":          header + "[[command]\n",
	}
	for name, data := range invalid {
		_, err := Parse(data)
		assert.Error(t, err, name)
	}
	// valid files which fail when building the maker
	broken := map[string]string{
		"template":     strings.Replace(header, "single-staff", "quartet", 1),
		"voice":        header + "[[command]]\ntype = \"tie\"\nvoice = \"NoVoice\"\n",
		"clef":         header + "[[command]]\ntype = \"clef\"\nvoice = \"MusicVoice\"\nclef = \"soprano\"\n",
		"selector":     header + "[[command]]\ntype = \"fuse\"\nvoice = \"MusicVoice\"\nselector = \"plt:x\"\n",
		"bow contacts": header + "[[command]]\ntype = \"bcps\"\nvoice = \"MusicVoice\"\npoints = \"4/3\"\n",
	}
	for name, data := range broken {
		def, err := Parse(data)
		require.NoError(t, err, name)
		_, err = def.Maker(nil)
		assert.Error(t, err, name)
	}
}

func TestAllCommandTypesBuild(t *testing.T) {
	params := map[string]CommandDef{
		"rhythm":          {Maker: "notes", Value: "1/4"},
		"pitches":         {Pitches: "0 2 4"},
		"staff_positions": {Positions: []int{0, 2}},
		"interpolate":     {Start: "c'", Stop: "c''"},
		"bcps":            {Points: "1/5 3/5"},
		"hairpin":         {Descriptor: "p < f"},
		"tie":             {},
		"untie":           {},
		"articulations":   {Names: []string{"accent"}},
		"dynamics":        {Names: []string{"mf"}},
		"markup":          {Markup: []string{"sul pont."}},
		"clef":            {Clef: "bass"},
		"instrument":      {Instrument: "viola"},
		"register":        {Center: 12},
		"transpose":       {Semitones: -3},
		"color":           {Color: "red"},
		"override":        {Grob: "Beam", Property: "positions", Setting: "#'(3 . 3)"},
		"notehead":        {Style: "harmonic"},
		"fuse":            {},
	}
	assert.Equal(t, len(params), len(CommandTypes()))
	for _, typ := range CommandTypes() {
		cd, ok := params[typ]
		require.True(t, ok, "no parameters for %s", typ)
		cd.Type, cd.Voice = typ, "MusicVoice"
		cmd, scope, err := buildCommand(cd)
		require.NoError(t, err, typ)
		var _ command.Command = cmd
		assert.Len(t, scope, 1)
	}
}

func TestParseSelector(t *testing.T) {
	leaves := []*notation.Leaf{
		notation.NewRest(notation.D(1, 4)),
		notation.NewNote(notation.MiddleC, notation.D(1, 4)),
		notation.NewNote(notation.MustParsePitch("d'"), notation.D(1, 4)),
		notation.NewRest(notation.D(1, 4)),
	}
	voice := notation.NewContext("Voice", "V")
	for _, l := range leaves {
		voice.Append(l)
	}
	all := notation.Select(voice.Leaves())
	for spec, n := range map[string]int{
		"leaves":         4,
		"pitched":        2,
		"rests":          2,
		"plts":           2,
		"plt:-1":         1,
		"leaf:0":         1,
		"leaves:1:3":     2,
		"pitched leaf:1": 1,
	} {
		sel, err := ParseSelector(spec)
		require.NoError(t, err, spec)
		assert.Len(t, sel(all).Leaves(), n, spec)
	}
	sel, err := ParseSelector("pitched leaf:1")
	require.NoError(t, err)
	assert.Equal(t, leaves[2], sel(all).Leaves()[0])
	sel, err = ParseSelector("  ")
	assert.NoError(t, err)
	assert.Nil(t, sel)
	for _, bad := range []string{"plt", "leaf:1:2", "beams", "leaves:a:b"} {
		_, err := ParseSelector(bad)
		assert.Error(t, err, bad)
	}
}
