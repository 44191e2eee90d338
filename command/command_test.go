package command

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staffWith puts leaves into voice "V" of staff "S".
func staffWith(leaves ...*notation.Leaf) *notation.Container {
	staff := notation.NewContext("Staff", "S")
	voice := notation.NewContext("Voice", "V")
	for _, l := range leaves {
		voice.Append(l)
	}
	staff.Append(voice)
	return voice
}

func quarters(n int) []*notation.Leaf {
	leaves := make([]*notation.Leaf, n)
	for i := range leaves {
		leaves[i] = notation.NewNote(notation.MiddleC, notation.D(1, 4))
	}
	return leaves
}

func all(v *notation.Container) notation.Selection {
	return notation.Select(v.Leaves())
}

func TestParsePitches(t *testing.T) {
	sets, err := ParsePitches("19 <0 4 7> r fs''")
	require.NoError(t, err)
	require.Len(t, sets, 4)
	assert.Len(t, sets[0], 1)
	assert.Len(t, sets[1], 3)
	assert.Len(t, sets[2], 0)
	assert.Equal(t, "fs''", sets[3][0].Name())
	_, err = ParsePitches("<0 4")
	assert.Error(t, err)
}

func TestPitchCommandExhaustion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.command")
	defer teardown()
	//
	cmd, err := NewPitchCommand("0 2 4", false)
	require.NoError(t, err)
	v := staffWith(quarters(4)...)
	err = cmd.Apply(NewState(nil), all(v))
	var cerr CountError
	require.True(t, errors.As(err, &cerr), "expected count error, have %v", err)
	assert.Equal(t, 4, cerr.Ties)
	//
	v = staffWith(quarters(3)...)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	var names []string
	for _, l := range v.Leaves() {
		names = append(names, l.Pitches[0].Name())
		assert.False(t, l.HasFlag(notation.FlagNotYetPitched))
	}
	assert.Equal(t, []string{"c'", "d'", "e'"}, names)
}

func TestPitchCommandPersists(t *testing.T) {
	cmd, err := NewPitchCommand("0 2 4", false)
	require.NoError(t, err)
	cmd.Persist = "upper"
	first := NewState(nil)
	require.NoError(t, cmd.Apply(first, all(staffWith(quarters(2)...))))
	assert.Equal(t, 2, first.Persist()["upper"].PitchesConsumed)
	//
	second := NewState(first.Persist())
	v := staffWith(quarters(1)...)
	require.NoError(t, cmd.Apply(second, all(v)))
	assert.Equal(t, "e'", v.Leaves()[0].Pitches[0].Name())
	err = cmd.Apply(second, all(staffWith(quarters(2)...)))
	assert.Error(t, err, "expected exhaustion after persisted pitches")
}

func TestPitchCommandCyclicChordsAndRests(t *testing.T) {
	cmd, err := NewPitchCommand("<0 4> r", true)
	require.NoError(t, err)
	v := staffWith(quarters(3)...)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	leaves := v.Leaves()
	assert.Equal(t, notation.ChordLeaf, leaves[0].Kind)
	assert.Equal(t, notation.RestLeaf, leaves[1].Kind)
	assert.Equal(t, notation.ChordLeaf, leaves[2].Kind)
}

func TestEmptySelection(t *testing.T) {
	cmd, _ := NewPitchCommand("0", true)
	cmd.Selector = notation.PLT(5)
	err := cmd.Apply(NewState(nil), all(staffWith(quarters(2)...)))
	assert.True(t, errors.Is(err, ErrEmptySelection), "have %v", err)
}

func TestBowContactPoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.command")
	defer teardown()
	//
	n := quarters(5)
	rest := notation.NewRest(notation.D(1, 4))
	v := staffWith(n[0], n[1], rest, n[2], n[3], n[4])
	cmd, err := NewBowContactPointCommand("1/5 3/5 2/5 4/5")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	//
	points := []string{"1/5", "3/5", "2/5", "4/5", "1/5"}
	for i, l := range n {
		bcp, ok := notation.IndicatorOf[notation.BowContactPoint](l)
		require.True(t, ok, "note %d has no contact point", i)
		assert.Equal(t, points[i], bcp.Ratio().String(), "note %d", i)
	}
	assert.False(t, notation.HasIndicator[notation.BowContactPoint](rest))
	//
	bowings := []string{"downbow", "upbow", "downbow", "upbow", ""}
	for i, l := range n {
		a, ok := notation.IndicatorOf[notation.Articulation](l)
		if bowings[i] == "" {
			assert.False(t, ok, "note %d should not carry a bowing", i)
			continue
		}
		require.True(t, ok, "note %d should carry a bowing", i)
		assert.Equal(t, bowings[i], a.Name, "note %d", i)
	}
}

func TestBowContactPointsSkipRestWhenComparing(t *testing.T) {
	n := quarters(3)
	v := staffWith(n[0], n[1], notation.NewRest(notation.D(1, 4)), n[2])
	cmd, err := NewBowContactPointCommand("1/5 3/5 2/5")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	a, ok := notation.IndicatorOf[notation.Articulation](n[0])
	require.True(t, ok)
	assert.Equal(t, "downbow", a.Name)
	a, ok = notation.IndicatorOf[notation.Articulation](n[1])
	require.True(t, ok, "local maximum before a rest should carry a bowing")
	assert.Equal(t, "upbow", a.Name)
	assert.False(t, notation.HasIndicator[notation.Articulation](n[2]))
}

func TestBowContactPointsTrailingRest(t *testing.T) {
	n := quarters(2)
	v := staffWith(n[0], n[1], notation.NewRest(notation.D(1, 4)))
	cmd, _ := NewBowContactPointCommand("1/5 3/5")
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	assert.True(t, notation.HasIndicator[notation.Articulation](n[0]))
	assert.False(t, notation.HasIndicator[notation.Articulation](n[1]), "last note is never marked")
}

func TestBowContactPointsConsecutiveRests(t *testing.T) {
	n := quarters(2)
	v := staffWith(n[0], notation.NewRest(notation.D(1, 4)), notation.NewRest(notation.D(1, 4)), n[1])
	cmd, _ := NewBowContactPointCommand("1/4 3/4")
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	bcp, _ := notation.IndicatorOf[notation.BowContactPoint](n[1])
	assert.Equal(t, "3/4", bcp.Ratio().String())
	_, err := NewBowContactPointCommand("5/4")
	assert.Error(t, err)
}

func TestInterpolateEndpointsAndRounding(t *testing.T) {
	assert.Equal(t, []int{-6, -3, 0, 3, 6}, Interpolate(-6, 6, 5))
	assert.Equal(t, []int{0, 2, 3}, Interpolate(0, 3, 3))
	for p0 := -8; p0 <= 8; p0 += 3 {
		for p1 := -9; p1 <= 9; p1 += 2 {
			for n := 2; n <= 9; n++ {
				pos := Interpolate(p0, p1, n)
				require.Len(t, pos, n)
				assert.Equal(t, p0, pos[0])
				assert.Equal(t, p1, pos[n-1])
				for i, p := range pos {
					ideal := float64(p0) + float64(p1-p0)*float64(i)/float64(n-1)
					assert.LessOrEqual(t, math.Abs(float64(p)-ideal), 0.5, "p0=%d p1=%d n=%d i=%d", p0, p1, n, i)
				}
			}
		}
	}
}

func TestInterpolationCommand(t *testing.T) {
	v := staffWith(quarters(3)...)
	cmd, err := NewInterpolationCommand("c'", "c''")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	var names []string
	for _, l := range v.Leaves() {
		names = append(names, l.Pitches[0].Name())
	}
	assert.Equal(t, []string{"c'", "g'", "c''"}, names)
}

func TestStaffPositions(t *testing.T) {
	v := staffWith(quarters(2)...)
	cmd, err := NewStaffPositionCommand([]int{0}, true)
	require.NoError(t, err)
	err = cmd.Apply(NewState(nil), all(v))
	var cerr CountError
	assert.True(t, errors.As(err, &cerr))
	//
	cmd.Exact = false
	state := NewState(nil)
	state.DefaultClefs["S"] = notation.Bass
	require.NoError(t, cmd.Apply(state, all(v)))
	assert.Equal(t, "d", v.Leaves()[1].Pitches[0].Name())
	//
	v.Leaves()[0].Attach(notation.Treble)
	require.NoError(t, cmd.Apply(state, all(v)))
	assert.Equal(t, "b'", v.Leaves()[1].Pitches[0].Name())
}

func TestHairpins(t *testing.T) {
	v := staffWith(quarters(3)...)
	cmd, err := NewHairpinCommand("p < f")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	ly := notation.Lilypond(v)
	assert.Contains(t, ly, `\p`)
	assert.Contains(t, ly, `\<`)
	assert.Contains(t, ly, `\f`)
	assert.Empty(t, notation.CheckWellformedness(v))
	//
	v = staffWith(quarters(2)...)
	cmd, err = NewHairpinCommand("o< mf")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	assert.Contains(t, notation.Lilypond(v), "circled-tip")
	//
	_, err = NewHairpinCommand("p f")
	assert.Error(t, err)
	cmd, _ = NewHairpinCommand("f >o")
	err = cmd.Apply(NewState(nil), all(staffWith(quarters(1)...)))
	assert.Error(t, err)
}

func TestRegisterAndTranspose(t *testing.T) {
	v := staffWith(
		notation.NewNote(notation.PitchFromNumber(19), notation.D(1, 4)),
		notation.NewNote(notation.PitchFromNumber(-13), notation.D(1, 4)),
	)
	reg := &RegisterCommand{Center: 0}
	require.NoError(t, reg.Apply(NewState(nil), all(v)))
	assert.Equal(t, -5, v.Leaves()[0].Pitches[0].Number())
	assert.Equal(t, -1, v.Leaves()[1].Pitches[0].Number())
	//
	tr := &TransposeCommand{Semitones: 12}
	require.NoError(t, tr.Apply(NewState(nil), all(v)))
	assert.Equal(t, 7, v.Leaves()[0].Pitches[0].Number())
}

func TestTieAndUntie(t *testing.T) {
	v := staffWith(
		notation.NewNote(notation.MustParsePitch("c'"), notation.D(1, 4)),
		notation.NewNote(notation.MustParsePitch("d'"), notation.D(1, 4)),
		notation.NewNote(notation.MustParsePitch("e'"), notation.D(1, 4)),
	)
	require.NoError(t, (&TieCommand{}).Apply(NewState(nil), all(v)))
	leaves := v.Leaves()
	assert.True(t, leaves[0].Tied)
	assert.True(t, leaves[1].Tied)
	assert.False(t, leaves[2].Tied)
	assert.Equal(t, "c'", leaves[2].Pitches[0].Name())
	assert.Len(t, all(v).LogicalTies(), 1)
	assert.Empty(t, notation.CheckWellformedness(v))
	//
	require.NoError(t, (&TieCommand{Untie: true}).Apply(NewState(nil), all(v)))
	assert.Len(t, all(v).LogicalTies(), 3)
}

func TestFuseMarksMutation(t *testing.T) {
	n := quarters(2)
	n[0].Tied = true
	n[1].Attach(notation.Accent)
	v := staffWith(append(n, notation.NewNote(notation.MiddleC, notation.D(1, 4)))...)
	state := NewState(nil)
	require.NoError(t, (&FuseCommand{}).Apply(state, all(v)))
	assert.True(t, state.Mutated())
	assert.False(t, state.Mutated(), "mutation flag should reset")
	leaves := v.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "c'2", leaves[0].Body())
	assert.True(t, notation.HasIndicator[notation.Articulation](leaves[0]))
}

func TestIndicatorCommands(t *testing.T) {
	v := staffWith(quarters(3)...)
	cmd, err := Articulations("accent", "staccato")
	require.NoError(t, err)
	require.NoError(t, cmd.Apply(NewState(nil), all(v)))
	a, _ := notation.IndicatorOf[notation.Articulation](v.Leaves()[2])
	assert.Equal(t, "accent", a.Name)
	//
	dyn, err := Dynamics("p", "f ancora")
	require.NoError(t, err)
	require.NoError(t, dyn.Apply(NewState(nil), all(v)))
	require.NoError(t, dyn.Apply(NewState(nil), all(v)))
	assert.Empty(t, notation.CheckWellformedness(v), "dynamics must not duplicate")
	assert.True(t, strings.HasPrefix(dyn.String(), "Dynamics("))
	//
	_, err = Dynamics("loud")
	assert.Error(t, err)
	_, err = NewClefCommand("soprano")
	assert.Error(t, err)
	_, err = NewInstrumentCommand("theremin")
	assert.Error(t, err)
}

func TestOverrideAndNotehead(t *testing.T) {
	v := staffWith(quarters(2)...)
	ov, err := NewOverrideCommand("Beam", "positions", "#'(3 . 3)")
	require.NoError(t, err)
	require.NoError(t, ov.Apply(NewState(nil), all(v)))
	nh, err := NewNoteheadCommand("harmonic")
	require.NoError(t, err)
	require.NoError(t, nh.Apply(NewState(nil), all(v)))
	ly := notation.Lilypond(v)
	assert.Contains(t, ly, `\override Beam.positions = #'(3 . 3)`)
	assert.Contains(t, ly, `\revert Beam.positions`)
	assert.Equal(t, 2, strings.Count(ly, `\once \override NoteHead.style = #'harmonic`))
	_, err = NewNoteheadCommand("banana")
	assert.Error(t, err)
}
