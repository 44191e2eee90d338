package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// NamedPitch is a pitch spelled with a diatonic step, an alteration in
// semitones and an octave. Octave 4 is the octave starting at middle C (c').
type NamedPitch struct {
	Step   int // 0 = c, 1 = d, … 6 = b
	Alter  int // semitones, -2 … +2
	Octave int
}

var stepNames = [7]string{"c", "d", "e", "f", "g", "a", "b"}
var stepSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// default spelling of pitch classes: c cs d ef e f fs g af a bf b
var pcSpelling = [12]struct{ step, alter int }{
	{0, 0}, {0, 1}, {1, 0}, {2, -1}, {2, 0}, {3, 0},
	{3, 1}, {4, 0}, {5, -1}, {5, 0}, {6, -1}, {6, 0},
}

var alterSuffix = map[int]string{-2: "ff", -1: "f", 0: "", 1: "s", 2: "ss"}

// MiddleC is c'.
var MiddleC = NamedPitch{Step: 0, Octave: 4}

// PitchFromNumber spells a numbered pitch (0 = c') with the default
// accidental spelling.
func PitchFromNumber(n int) NamedPitch {
	pc := mod(n, 12)
	oct := 4 + floorDiv(n, 12)
	sp := pcSpelling[pc]
	return NamedPitch{Step: sp.step, Alter: sp.alter, Octave: oct}
}

// ParsePitch parses LilyPond english pitch names like "c'", "fs''", "bf,"
// or a pitch number like "13" or "-5".
func ParsePitch(s string) (NamedPitch, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NamedPitch{}, fmt.Errorf("empty pitch")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return PitchFromNumber(n), nil
	}
	step := strings.IndexByte("cdefgab", s[0])
	if step < 0 {
		return NamedPitch{}, fmt.Errorf("invalid pitch name %q", s)
	}
	p := NamedPitch{Step: step, Octave: 3}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "ss"):
		p.Alter, rest = 2, rest[2:]
	case strings.HasPrefix(rest, "ff"):
		p.Alter, rest = -2, rest[2:]
	case strings.HasPrefix(rest, "s"):
		p.Alter, rest = 1, rest[1:]
	case strings.HasPrefix(rest, "f"):
		p.Alter, rest = -1, rest[1:]
	}
	for _, r := range rest {
		switch r {
		case '\'':
			p.Octave++
		case ',':
			p.Octave--
		default:
			return NamedPitch{}, fmt.Errorf("invalid pitch name %q", s)
		}
	}
	return p, nil
}

// MustParsePitch is like ParsePitch but panics on error. Intended for
// pitch literals in code.
func MustParsePitch(s string) NamedPitch {
	p, err := ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Number returns the pitch number, with c' = 0.
func (p NamedPitch) Number() int {
	return (p.Octave-4)*12 + stepSemitones[mod(p.Step, 7)] + p.Alter
}

// PitchClass returns the pitch class number 0…11.
func (p NamedPitch) PitchClass() int {
	return mod(p.Number(), 12)
}

// DiatonicNumber counts diatonic steps from c in octave 0.
func (p NamedPitch) DiatonicNumber() int {
	return p.Octave*7 + p.Step
}

// StaffPosition returns the staff position of p relative to the middle
// line of a staff with clef c.
func (p NamedPitch) StaffPosition(c Clef) int {
	return p.DiatonicNumber() - c.MiddleLine()
}

// PitchFromStaffPosition returns the natural pitch at staff position pos for
// clef c.
func PitchFromStaffPosition(pos int, c Clef) NamedPitch {
	dn := c.MiddleLine() + pos
	return NamedPitch{Step: mod(dn, 7), Octave: floorDiv(dn, 7)}
}

// Transpose returns the pitch n semitones away, respelled with the default
// spelling.
func (p NamedPitch) Transpose(n int) NamedPitch {
	if n == 0 {
		return p
	}
	return PitchFromNumber(p.Number() + n)
}

// TransposeOctaves keeps the spelling and moves p by n octaves.
func (p NamedPitch) TransposeOctaves(n int) NamedPitch {
	p.Octave += n
	return p
}

// Name returns the LilyPond english pitch name, e.g. "fs''".
func (p NamedPitch) Name() string {
	var sb strings.Builder
	sb.WriteString(stepNames[mod(p.Step, 7)])
	sb.WriteString(alterSuffix[p.Alter])
	switch {
	case p.Octave > 3:
		sb.WriteString(strings.Repeat("'", p.Octave-3))
	case p.Octave < 3:
		sb.WriteString(strings.Repeat(",", 3-p.Octave))
	}
	return sb.String()
}

func (p NamedPitch) String() string {
	return p.Name()
}

// PitchRange is a closed range of sounding pitches.
type PitchRange struct {
	Low, High NamedPitch
}

// Contains is true if p lies within the range, compared by pitch number.
func (r PitchRange) Contains(p NamedPitch) bool {
	n := p.Number()
	return n >= r.Low.Number() && n <= r.High.Number()
}

func (r PitchRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Low.Name(), r.High.Name())
}

// ParsePitchRange parses "[g c'''']" or "g c''''". Commas are octave marks,
// so the bounds must be separated by whitespace.
func ParsePitchRange(s string) (PitchRange, error) {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), "[]"))
	if len(fields) != 2 {
		return PitchRange{}, fmt.Errorf("invalid pitch range %q", s)
	}
	lo, err := ParsePitch(fields[0])
	if err != nil {
		return PitchRange{}, err
	}
	hi, err := ParsePitch(fields[1])
	if err != nil {
		return PitchRange{}, err
	}
	return PitchRange{Low: lo, High: hi}, nil
}

// --- Clefs -----------------------------------------------------------------

// Clef is one of the standard clefs.
type Clef string

// The clefs supported.
const (
	Treble     Clef = "treble"
	Bass       Clef = "bass"
	Alto       Clef = "alto"
	Tenor      Clef = "tenor"
	Percussion Clef = "percussion"
)

// ParseClef checks a clef name.
func ParseClef(s string) (Clef, error) {
	c := Clef(strings.TrimSpace(s))
	switch c {
	case Treble, Bass, Alto, Tenor, Percussion:
		return c, nil
	}
	return "", fmt.Errorf("unknown clef %q", s)
}

// MiddleLine returns the diatonic number of the pitch on the middle line of
// the staff.
func (c Clef) MiddleLine() int {
	switch c {
	case Bass:
		return 3*7 + 1 // d
	case Alto:
		return 4 * 7 // c'
	case Tenor:
		return 3*7 + 5 // a
	default:
		return 4*7 + 6 // b'
	}
}

// Site is always before the leaf body.
func (c Clef) Site() Site { return SiteBefore }

// Lilypond formats the clef command.
func (c Clef) Lilypond() string {
	return fmt.Sprintf(`\clef "%s"`, string(c))
}

// ---------------------------------------------------------------------------

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
