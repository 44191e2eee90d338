package segment

import (
	"github.com/npillmayer/scorekit/instrument"
	"github.com/npillmayer/scorekit/notation"
)

// Colors used to flag violations in the score.
const (
	rangeColor     = "red"
	octaveColor    = "red"
	repeatColor    = "blue"
	unpitchedColor = "darkyellow"
)

// --- Pass 9 ------------------------------------------------------------------

// check runs all checks. Critical violations fail the segment; the others
// are flagged by color and handed out with the result.
func (r *run) check() error {
	r.checkWellformedness()
	if err := r.checkRanges(); err != nil {
		return err
	}
	r.checkOctaves()
	r.checkRepeatPitchClasses()
	r.checkUnpitched()
	if crit := r.checks.critical(); len(crit) > 0 {
		return CheckError{Segment: r.cfg.Name, Violations: crit}
	}
	return nil
}

func colorLeaf(l *notation.Leaf, color string) {
	l.Detach(func(ind notation.Indicator) bool {
		_, ok := ind.(notation.Color)
		return ok
	})
	l.Attach(notation.Color{Name: color})
}

// pitched reports whether l is a note or chord which got its pitches from
// a pitch command.
func pitched(l *notation.Leaf) bool {
	return l.IsPitched() && !l.HasFlag(notation.FlagNotYetPitched)
}

func (r *run) checkWellformedness() {
	for _, d := range notation.CheckWellformedness(r.score) {
		r.checks.add(d.Check, d.Voice, d.Index, d.Leaf, SeverityCritical, "%s", d.Issue)
	}
}

// checkRanges compares sounding pitches against the range of the instrument
// in effect.
func (r *run) checkRanges() error {
	return r.walkInstruments(func(_, voice string, i int, l *notation.Leaf, inst *instrument.Instrument) error {
		if inst == nil || !pitched(l) {
			return nil
		}
		for _, p := range l.Pitches {
			sounding := p
			if r.cfg.TransposeScore {
				sounding = p.Transpose(-inst.Transposition)
			}
			if inst.InRange(sounding) {
				continue
			}
			if r.cfg.ColorOutOfRangePitches {
				colorLeaf(l, rangeColor)
				r.checks.add("range", voice, i, l, SeverityMajor, "%s out of range %s of %s", sounding.Name(), inst.Range, inst.Key)
			} else {
				r.checks.add("range", voice, i, l, SeverityCritical, "%s out of range %s of %s", sounding.Name(), inst.Range, inst.Key)
			}
			break
		}
		return nil
	})
}

type sounding struct {
	voice       string
	index       int
	leaf        *notation.Leaf
	start, stop notation.Duration
}

// checkOctaves flags pitch classes sounding in more than one octave at the
// same time, across all voices.
func (r *run) checkOctaves() {
	if !r.cfg.ColorOctaves {
		return
	}
	var all []sounding
	for _, v := range r.score.Contexts("Voice") {
		leaves := v.Leaves()
		offsets := notation.Offsets(leaves)
		for i, l := range leaves {
			if pitched(l) {
				all = append(all, sounding{v.Name, i, l, offsets[i], offsets[i].Add(l.Duration())})
			}
		}
	}
	flagged := map[*notation.Leaf]bool{}
	for _, at := range all {
		t := at.start
		byClass := map[int][]sounding{}
		numbers := map[int]map[int]bool{}
		for _, s := range all {
			if s.start.Cmp(t) > 0 || !t.Less(s.stop) {
				continue
			}
			for _, p := range s.leaf.Pitches {
				pc := p.PitchClass()
				byClass[pc] = append(byClass[pc], s)
				if numbers[pc] == nil {
					numbers[pc] = map[int]bool{}
				}
				numbers[pc][p.Number()] = true
			}
		}
		for pc, group := range byClass {
			if len(numbers[pc]) < 2 {
				continue
			}
			for _, s := range group {
				if flagged[s.leaf] {
					continue
				}
				flagged[s.leaf] = true
				colorLeaf(s.leaf, octaveColor)
				r.checks.add("octaves", s.voice, s.index, s.leaf, SeverityMinor, "pitch class %d sounds in more than one octave", pc)
			}
		}
	}
}

// checkRepeatPitchClasses looks for consecutive notes of the same pitch
// class within a voice.
func (r *run) checkRepeatPitchClasses() {
	if r.cfg.RepeatPitchClasses == Ignore || r.cfg.RepeatPitchClasses == "" {
		return
	}
	for _, v := range r.score.Contexts("Voice") {
		leaves := v.Leaves()
		pos := make(map[*notation.Leaf]int, len(leaves))
		for i, l := range leaves {
			pos[l] = i
		}
		plts := notation.Select(leaves).PLTs()
		for i := 1; i < len(plts); i++ {
			a, b := plts[i-1].Pitches(), plts[i].Pitches()
			if len(a) != 1 || len(b) != 1 || a[0].PitchClass() != b[0].PitchClass() {
				continue
			}
			head := plts[i].Head()
			if !pitched(plts[i-1].Head()) || !pitched(head) {
				continue
			}
			if r.cfg.RepeatPitchClasses == Color {
				colorLeaf(head, repeatColor)
				r.checks.add("repeats", v.Name, pos[head], head, SeverityMajor, "repeated pitch class %d", b[0].PitchClass())
			} else {
				r.checks.add("repeats", v.Name, pos[head], head, SeverityCritical, "repeated pitch class %d", b[0].PitchClass())
			}
		}
	}
}

// checkUnpitched flags notes made by rhythm commands which never got a pitch.
func (r *run) checkUnpitched() {
	if r.cfg.IgnoreUnpitchedNotes {
		return
	}
	for _, v := range r.score.Contexts("Voice") {
		for i, l := range v.Leaves() {
			if l.HasFlag(notation.FlagNotYetPitched) {
				colorLeaf(l, unpitchedColor)
				r.checks.add("unpitched", v.Name, i, l, SeverityMinor, "note has not been pitched")
			}
		}
	}
}
