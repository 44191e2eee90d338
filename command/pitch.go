package command

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

// PitchSet is the content of one logical tie: no pitch for a rest, one for
// a note, more for a chord.
type PitchSet []notation.NamedPitch

func (ps PitchSet) String() string {
	switch len(ps) {
	case 0:
		return "r"
	case 1:
		return ps[0].Name()
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return "<" + strings.Join(names, " ") + ">"
}

// ParsePitches parses a whitespace separated list of pitches. Pitches may
// be given by name ("fs''") or number ("18"); "r" is a rest and "<0 4 7>"
// a chord.
func ParsePitches(spec string) ([]PitchSet, error) {
	var sets []PitchSet
	var chord PitchSet
	inChord := false
	for _, tok := range strings.Fields(spec) {
		if strings.HasPrefix(tok, "<") {
			if inChord {
				return nil, fmt.Errorf("nested chord in %q", spec)
			}
			inChord, chord = true, PitchSet{}
			tok = tok[1:]
		}
		closing := inChord && strings.HasSuffix(tok, ">")
		if closing {
			tok = strings.TrimSuffix(tok, ">")
		}
		switch {
		case tok == "":
		case tok == "r" && !inChord:
			sets = append(sets, PitchSet{})
		default:
			p, err := notation.ParsePitch(tok)
			if err != nil {
				return nil, err
			}
			if inChord {
				chord = append(chord, p)
			} else {
				sets = append(sets, PitchSet{p})
			}
		}
		if closing {
			sets = append(sets, chord)
			inChord = false
		}
	}
	if inChord {
		return nil, fmt.Errorf("unterminated chord in %q", spec)
	}
	return sets, nil
}

// --- Pitches ---------------------------------------------------------------

// PitchCommand assigns pitches to pitched logical ties in order.
//
// A cyclic command restarts at the beginning of its list when the list is
// exhausted. A non-cyclic command fails if there are more logical ties than
// pitches. With a persistence name, the command continues where a command
// of the same name stopped in the previous segment.
type PitchCommand struct {
	Pitches  []PitchSet
	Cyclic   bool
	Persist  string
	Selector notation.Selector
}

// NewPitchCommand creates a pitch command from a pitch list like
// "19 13 15 <0 4> r".
func NewPitchCommand(pitches string, cyclic bool) (*PitchCommand, error) {
	sets, err := ParsePitches(pitches)
	if err != nil {
		return nil, argError("PitchCommand", "%v", err)
	}
	if len(sets) == 0 {
		return nil, argError("PitchCommand", "no pitches")
	}
	return &PitchCommand{Pitches: sets, Cyclic: cyclic}, nil
}

func (c *PitchCommand) String() string {
	parts := make([]string, len(c.Pitches))
	for i, ps := range c.Pitches {
		parts[i] = ps.String()
	}
	mode := "non-cyclic"
	if c.Cyclic {
		mode = "cyclic"
	}
	return fmt.Sprintf("PitchCommand(%s, %s)", strings.Join(parts, " "), mode)
}

// Apply implements Command.
func (c *PitchCommand) Apply(state *State, sel notation.Selection) error {
	if len(c.Pitches) == 0 {
		return argError("PitchCommand", "no pitches")
	}
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	plts := sel.PLTs()
	start := 0
	if c.Persist != "" {
		if p, ok := state.Recall(c.Persist); ok {
			start = p.PitchesConsumed
		}
	}
	k, n := len(c.Pitches), len(plts)
	if !c.Cyclic && start+n > k {
		return CountError{
			Command: c.String(),
			Values:  k - start,
			Ties:    n,
			Issue:   "too few pitches",
		}
	}
	for i, plt := range plts {
		plt.SetPitches(c.Pitches[(start+i)%k])
	}
	if c.Persist != "" {
		state.Remember(c.Persist, Persisted{PitchesConsumed: start + n})
	}
	tracer().Debugf("%s: pitched %d logical ties", c, n)
	return nil
}

// --- Staff positions -------------------------------------------------------

// StaffPositionCommand assigns staff positions (0 = middle line) to pitched
// logical ties, spelling them for the clef in effect. In exact mode the
// number of positions must equal the number of logical ties; otherwise
// positions are used cyclically.
type StaffPositionCommand struct {
	Positions []int
	Exact     bool
	Selector  notation.Selector
}

// NewStaffPositionCommand creates a staff position command.
func NewStaffPositionCommand(positions []int, exact bool) (*StaffPositionCommand, error) {
	if len(positions) == 0 {
		return nil, argError("StaffPositionCommand", "no staff positions")
	}
	return &StaffPositionCommand{Positions: positions, Exact: exact}, nil
}

func (c *StaffPositionCommand) String() string {
	return fmt.Sprintf("StaffPositionCommand(%v, exact=%t)", c.Positions, c.Exact)
}

// Apply implements Command.
func (c *StaffPositionCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	plts := sel.PLTs()
	if c.Exact && len(plts) != len(c.Positions) {
		return CountError{
			Command: c.String(),
			Values:  len(c.Positions),
			Ties:    len(plts),
			Issue:   "staff positions do not match logical ties",
		}
	}
	for i, plt := range plts {
		clef := state.EffectiveClef(plt.Head())
		pos := c.Positions[i%len(c.Positions)]
		plt.SetPitch(notation.PitchFromStaffPosition(pos, clef))
	}
	return nil
}

// StaffPositionInterpolationCommand interpolates staff positions between
// the positions of a start and a stop pitch. The first logical tie gets the
// start pitch and the last one the stop pitch, exactly; ties in between get
// the linearly interpolated staff position rounded to the nearest integer
// (halves rounded away from zero).
type StaffPositionInterpolationCommand struct {
	Start, Stop notation.NamedPitch
	Selector    notation.Selector
}

// NewInterpolationCommand creates an interpolation command from two pitch
// names.
func NewInterpolationCommand(start, stop string) (*StaffPositionInterpolationCommand, error) {
	p0, err := notation.ParsePitch(start)
	if err != nil {
		return nil, argError("StaffPositionInterpolationCommand", "%v", err)
	}
	p1, err := notation.ParsePitch(stop)
	if err != nil {
		return nil, argError("StaffPositionInterpolationCommand", "%v", err)
	}
	return &StaffPositionInterpolationCommand{Start: p0, Stop: p1}, nil
}

func (c *StaffPositionInterpolationCommand) String() string {
	return fmt.Sprintf("StaffPositionInterpolationCommand(%s, %s)", c.Start.Name(), c.Stop.Name())
}

// Apply implements Command.
func (c *StaffPositionInterpolationCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	plts := sel.PLTs()
	n := len(plts)
	if n == 0 {
		return fmt.Errorf("%s: %w", c, ErrEmptySelection)
	}
	clef := state.EffectiveClef(plts[0].Head())
	positions := Interpolate(c.Start.StaffPosition(clef), c.Stop.StaffPosition(clef), n)
	for i, plt := range plts {
		switch {
		case i == 0:
			plt.SetPitch(c.Start)
		case i == n-1:
			plt.SetPitch(c.Stop)
		default:
			plt.SetPitch(notation.PitchFromStaffPosition(positions[i], clef))
		}
	}
	return nil
}

// Interpolate returns n staff positions from p0 to p1. Inner values are
// rounded to the nearest integer, halves away from zero.
func Interpolate(p0, p1, n int) []int {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int{p0}
	}
	out := make([]int, n)
	span, steps := p1-p0, n-1
	for i := range out {
		out[i] = p0 + roundDiv(span*i, steps)
	}
	out[n-1] = p1
	return out
}

// roundDiv divides a by b > 0, rounding halves away from zero.
func roundDiv(a, b int) int {
	if a >= 0 {
		return (2*a + b) / (2 * b)
	}
	return -((-2*a + b) / (2 * b))
}

// --- Register and transposition --------------------------------------------

// RegisterCommand moves every pitch by octaves into the twelve semitones
// window [Center-6, Center+6).
type RegisterCommand struct {
	Center   int
	Selector notation.Selector
}

func (c *RegisterCommand) String() string {
	return fmt.Sprintf("RegisterCommand(%d)", c.Center)
}

// Apply implements Command.
func (c *RegisterCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	low := c.Center - 6
	for _, plt := range sel.PLTs() {
		ps := make(PitchSet, len(plt.Pitches()))
		for i, p := range plt.Pitches() {
			ps[i] = p.TransposeOctaves(floorDiv(low-p.Number()+11, 12))
		}
		plt.SetPitches(ps)
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// TransposeCommand transposes every pitch by a number of semitones.
type TransposeCommand struct {
	Semitones int
	Selector  notation.Selector
}

func (c *TransposeCommand) String() string {
	return fmt.Sprintf("TransposeCommand(%d)", c.Semitones)
}

// Apply implements Command.
func (c *TransposeCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	for _, plt := range sel.PLTs() {
		ps := make(PitchSet, len(plt.Pitches()))
		for i, p := range plt.Pitches() {
			ps[i] = p.Transpose(c.Semitones)
		}
		plt.SetPitches(ps)
	}
	return nil
}
