package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// MetronomeMark is a tempo indication like ♩ = 60. Name is the key of the
// mark in a metronome mark library and is carried over between segments.
type MetronomeMark struct {
	Name           string
	Reference      Duration
	UnitsPerMinute int
	Text           string
}

// ParseMetronomeMark parses "4=60" or "8.=72", the reference duration being
// written in LilyPond duration syntax.
func ParseMetronomeMark(name, spec string) (MetronomeMark, error) {
	ref, upm, found := strings.Cut(strings.TrimSpace(spec), "=")
	if !found {
		return MetronomeMark{}, fmt.Errorf("invalid metronome mark %q", spec)
	}
	refDur, err := parseLilypondDuration(strings.TrimSpace(ref))
	if err != nil {
		return MetronomeMark{}, fmt.Errorf("invalid metronome mark %q: %w", spec, err)
	}
	units, err := strconv.Atoi(strings.TrimSpace(upm))
	if err != nil || units <= 0 {
		return MetronomeMark{}, fmt.Errorf("invalid metronome mark %q", spec)
	}
	return MetronomeMark{Name: name, Reference: refDur, UnitsPerMinute: units}, nil
}

func parseLilypondDuration(s string) (Duration, error) {
	dots := strings.Count(s, ".")
	base, err := strconv.Atoi(strings.TrimRight(s, "."))
	if err != nil || !isPowerOfTwo(int64(base)) {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}
	d := D(1, int64(base))
	add := d
	for i := 0; i < dots; i++ {
		add = add.Mul(D(1, 2))
		d = d.Add(add)
	}
	return d, nil
}

func (m MetronomeMark) Site() Site { return SiteBefore }

func (m MetronomeMark) Lilypond() string {
	if m.Text != "" {
		return fmt.Sprintf(`\tempo "%s" %s=%d`, m.Text, m.Reference.Lilypond(), m.UnitsPerMinute)
	}
	return fmt.Sprintf(`\tempo %s=%d`, m.Reference.Lilypond(), m.UnitsPerMinute)
}

func (m MetronomeMark) String() string {
	return fmt.Sprintf("%s=%d", m.Reference.Lilypond(), m.UnitsPerMinute)
}

// Seconds returns the clock time of a duration d under this tempo.
func (m MetronomeMark) Seconds(d Duration) float64 {
	if m.UnitsPerMinute == 0 || m.Reference.IsZero() {
		return 0
	}
	beats := d.Div(m.Reference)
	return beats.Float() * 60 / float64(m.UnitsPerMinute)
}

// ClockTime formats seconds as M'SS''.
func ClockTime(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d'%02d''", total/60, total%60)
}
