package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// Duration is an exact rational duration, measured in whole notes.
// The zero value is a zero duration.
type Duration struct {
	num, den int64
}

// D creates a normalized duration num/den. It panics if den is zero.
func D(num, den int64) Duration {
	if den == 0 {
		panic("notation: zero denominator in duration")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g > 1 {
		num, den = num/g, den/g
	}
	return Duration{num: num, den: den}
}

// ParseDuration parses strings of the form "3/8" or "2".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	n, d, found := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}
	den := int64(1)
	if found {
		if den, err = strconv.ParseInt(strings.TrimSpace(d), 10, 64); err != nil || den == 0 {
			return Duration{}, fmt.Errorf("invalid duration %q", s)
		}
	}
	return D(num, den), nil
}

func (d Duration) norm() Duration {
	if d.den == 0 {
		return Duration{num: 0, den: 1}
	}
	return d
}

// Num returns the numerator of the reduced fraction.
func (d Duration) Num() int64 { return d.norm().num }

// Den returns the denominator of the reduced fraction.
func (d Duration) Den() int64 { return d.norm().den }

// Add returns d+e.
func (d Duration) Add(e Duration) Duration {
	d, e = d.norm(), e.norm()
	return D(d.num*e.den+e.num*d.den, d.den*e.den)
}

// Sub returns d-e.
func (d Duration) Sub(e Duration) Duration {
	d, e = d.norm(), e.norm()
	return D(d.num*e.den-e.num*d.den, d.den*e.den)
}

// Mul returns d*e.
func (d Duration) Mul(e Duration) Duration {
	d, e = d.norm(), e.norm()
	return D(d.num*e.num, d.den*e.den)
}

// Div returns d/e. It panics if e is zero.
func (d Duration) Div(e Duration) Duration {
	d, e = d.norm(), e.norm()
	return D(d.num*e.den, d.den*e.num)
}

// Cmp compares d and e and returns -1, 0 or +1.
func (d Duration) Cmp(e Duration) int {
	d, e = d.norm(), e.norm()
	l, r := d.num*e.den, e.num*d.den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// Less is a shortcut for d.Cmp(e) < 0.
func (d Duration) Less(e Duration) bool { return d.Cmp(e) < 0 }

// Equal is a shortcut for d.Cmp(e) == 0.
func (d Duration) Equal(e Duration) bool { return d.Cmp(e) == 0 }

// IsZero is true for a zero duration.
func (d Duration) IsZero() bool { return d.norm().num == 0 }

// Float returns an approximation of d.
func (d Duration) Float() float64 {
	d = d.norm()
	return float64(d.num) / float64(d.den)
}

func (d Duration) String() string {
	d = d.norm()
	return fmt.Sprintf("%d/%d", d.num, d.den)
}

// dots returns the number of dots and the undotted base value for an
// assignable duration.
func (d Duration) dots() (int, Duration, bool) {
	d = d.norm()
	if d.num <= 0 || !isPowerOfTwo(d.den) {
		return 0, Duration{}, false
	}
	// numerator must be 2^a * (2^(k+1)-1) for k dots
	odd, a := d.num, 0
	for odd%2 == 0 {
		odd /= 2
		a++
	}
	if !isPowerOfTwo(odd + 1) {
		return 0, Duration{}, false
	}
	k := 0
	for n := odd + 1; n > 2; n >>= 1 {
		k++
	}
	base := D(1<<(a+k), d.den)
	if base.Cmp(D(4, 1)) > 0 {
		return 0, Duration{}, false
	}
	return k, base, true
}

// IsAssignable is true if d can be written as a single (possibly dotted)
// note value.
func (d Duration) IsAssignable() bool {
	_, _, ok := d.dots()
	return ok
}

// Lilypond returns the LilyPond duration string of an assignable duration,
// e.g. "4." for 3/8. It returns an empty string if d is not assignable.
func (d Duration) Lilypond() string {
	k, base, ok := d.dots()
	if !ok {
		return ""
	}
	var s string
	switch {
	case base.Equal(D(4, 1)):
		s = `\longa`
	case base.Equal(D(2, 1)):
		s = `\breve`
	default:
		s = strconv.FormatInt(base.den, 10)
	}
	return s + strings.Repeat(".", k)
}

// Partition splits d into a sequence of assignable durations, greedily
// taking the largest assignable value first. 5/16 results in 1/4 + 1/16.
func (d Duration) Partition() []Duration {
	d = d.norm()
	var parts []Duration
	for rest := d; rest.Cmp(Duration{}) > 0; {
		if rest.IsAssignable() {
			parts = append(parts, rest)
			break
		}
		p := largestAssignable(rest)
		if p.IsZero() {
			tracer().Errorf("cannot partition duration %s", d)
			break
		}
		parts = append(parts, p)
		rest = rest.Sub(p)
	}
	return parts
}

// largestAssignable returns the largest assignable duration <= d.
func largestAssignable(d Duration) Duration {
	// candidates are 2^k/den-ish values with up to 3 dots
	best := Duration{}
	for base := D(4, 1); base.Cmp(D(1, 1024)) >= 0; base = base.Mul(D(1, 2)) {
		v := base
		add := base
		for dots := 0; dots <= 3; dots++ {
			if v.Cmp(d) <= 0 && v.Cmp(best) > 0 && v.IsAssignable() {
				best = v
			}
			add = add.Mul(D(1, 2))
			v = v.Add(add)
		}
		if !best.IsZero() {
			break
		}
	}
	return best
}

// Beamable is true for durations shorter than a quarter note.
func (d Duration) Beamable() bool {
	return d.Less(D(1, 4))
}

// --- Time signatures -------------------------------------------------------

// TimeSignature is a meter like 3/8. It is not reduced.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

// ParseTimeSignature parses strings like "3/8".
func ParseTimeSignature(s string) (TimeSignature, error) {
	n, d, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q", s)
	}
	num, err1 := strconv.Atoi(strings.TrimSpace(n))
	den, err2 := strconv.Atoi(strings.TrimSpace(d))
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 || !isPowerOfTwo(int64(den)) {
		return TimeSignature{}, fmt.Errorf("invalid time signature %q", s)
	}
	return TimeSignature{Numerator: num, Denominator: den}, nil
}

// TimeSignatures parses a list of time signature strings.
func TimeSignatures(specs ...string) ([]TimeSignature, error) {
	ts := make([]TimeSignature, len(specs))
	for i, s := range specs {
		var err error
		if ts[i], err = ParseTimeSignature(s); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Duration returns the duration of one measure in this meter.
func (ts TimeSignature) Duration() Duration {
	return D(int64(ts.Numerator), int64(ts.Denominator))
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// Site is always before the leaf body.
func (ts TimeSignature) Site() Site { return SiteBefore }

// Lilypond formats the time signature command.
func (ts TimeSignature) Lilypond() string {
	return fmt.Sprintf(`\time %d/%d`, ts.Numerator, ts.Denominator)
}

// SumDurations adds up the durations of a list of time signatures.
func SumDurations(ts []TimeSignature) Duration {
	total := Duration{}
	for _, t := range ts {
		total = total.Add(t.Duration())
	}
	return total
}

// ---------------------------------------------------------------------------

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}
