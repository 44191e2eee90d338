package segment

import (
	"fmt"
	"sort"

	"github.com/npillmayer/scorekit/instrument"
	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
)

// --- Pass 8 ------------------------------------------------------------------

// decorate adds everything that depends on the finished music.
func (r *run) decorate() error {
	steps := []func() error{
		r.applySpacing,
		r.applyVoltas,
		r.labelClockTime,
		r.hideInstrumentNames,
		r.labelInstrumentChanges,
		r.transposeScore,
		r.attachEndings,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) applySpacing() error {
	if r.cfg.Spacing == nil {
		return nil
	}
	r.globalSkips().Leaves()[0].Attach(notation.SpacingSection{Duration: *r.cfg.Spacing})
	return nil
}

// applyVoltas wraps measures of the global skips into repeats. Spans are
// processed back to front, so that child indices stay valid.
func (r *run) applyVoltas() error {
	if len(r.cfg.VoltaMeasures) == 0 {
		return nil
	}
	spans := append([]MeasureSpan(nil), r.cfg.VoltaMeasures...)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start > spans[j].Start })
	skips := r.globalSkips()
	for _, span := range spans {
		if span.Start < 1 || span.Stop > skips.Len() || span.Stop < span.Start {
			return fmt.Errorf("volta measures %d…%d out of range", span.Start, span.Stop)
		}
		volta := notation.NewContainer()
		volta.Prefix = `\repeat volta 2`
		skips.Wrap(span.Start-1, span.Stop, volta)
	}
	r.invalidate()
	return nil
}

// measureSeconds returns the clock time at the start of every measure and
// at the end of the segment. It fails if no metronome mark is in effect at
// the start.
func (r *run) measureSeconds() ([]float64, bool) {
	skips := r.globalSkips().Leaves()
	seconds := make([]float64, len(skips)+1)
	var mark *notation.MetronomeMark
	for i, s := range skips {
		if m, ok := notation.IndicatorOf[notation.MetronomeMark](s); ok {
			mark = &m
		}
		if mark == nil {
			return nil, false
		}
		seconds[i+1] = seconds[i] + mark.Seconds(s.Duration())
	}
	return seconds, true
}

func (r *run) labelClockTime() error {
	seconds, ok := r.measureSeconds()
	if !ok {
		if r.cfg.LabelClockTime {
			tracer().Infof("segment %s: no metronome mark, no clock time", r.cfg.Name)
		}
		return nil
	}
	r.seconds = seconds[len(seconds)-1]
	if !r.cfg.LabelClockTime {
		return nil
	}
	skips := r.globalSkips().Leaves()
	for _, st := range r.stages {
		skips[st.first].Attach(markup.ClockTimeLabel(notation.ClockTime(seconds[st.first])))
	}
	return nil
}

func isInstrumentChange(ind notation.Indicator) bool {
	_, ok := ind.(notation.InstrumentChange)
	return ok
}

func (r *run) hideInstrumentNames() error {
	if !r.cfg.HideInstrumentNames {
		return nil
	}
	for _, v := range r.score.Contexts("Voice") {
		for _, l := range v.Leaves() {
			if ic, ok := notation.IndicatorOf[notation.InstrumentChange](l); ok {
				l.Detach(isInstrumentChange)
				ic.Hidden = true
				l.Attach(ic)
			}
		}
	}
	return nil
}

// labelInstrumentChanges labels every change to a different instrument,
// including a change at the start of the segment with respect to the end
// of the previous segment.
func (r *run) labelInstrumentChanges() error {
	for _, staff := range r.cfg.Template.Staves() {
		for _, vs := range staff.Voices {
			v := r.score.FindContext(vs.Name)
			if v == nil {
				continue
			}
			current := ""
			if prev := r.cfg.Previous; prev != nil {
				current = prev.EndInstruments[staff.Name]
			}
			for i, l := range v.Leaves() {
				ic, ok := notation.IndicatorOf[notation.InstrumentChange](l)
				if !ok {
					continue
				}
				if ic.Key != current && (i > 0 || current != "") {
					l.Attach(markup.InstrumentChangeLabel(ic.Name))
				}
				current = ic.Key
			}
		}
	}
	return nil
}

// walkInstruments calls fn for every leaf of the music, together with the
// instrument in effect at the leaf (nil if there is none).
func (r *run) walkInstruments(fn func(staff, voice string, index int, l *notation.Leaf, inst *instrument.Instrument) error) error {
	for _, staff := range r.cfg.Template.Staves() {
		for _, vs := range staff.Voices {
			v := r.score.FindContext(vs.Name)
			if v == nil {
				continue
			}
			var inst *instrument.Instrument
			if key := r.startInstrument(staff); key != "" {
				if i, ok := instrument.Lookup(key); ok {
					inst = &i
				}
			}
			for i, l := range v.Leaves() {
				if ic, ok := notation.IndicatorOf[notation.InstrumentChange](l); ok {
					if next, ok := instrument.Lookup(ic.Key); ok {
						inst = &next
					}
				}
				if err := fn(staff.Name, vs.Name, i, l, inst); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// transposeScore rewrites sounding pitches as written pitches for
// transposing instruments.
func (r *run) transposeScore() error {
	if !r.cfg.TransposeScore {
		return nil
	}
	return r.walkInstruments(func(_, _ string, _ int, l *notation.Leaf, inst *instrument.Instrument) error {
		if inst == nil || inst.Transposition == 0 || !l.IsPitched() {
			return nil
		}
		for i, p := range l.Pitches {
			l.Pitches[i] = p.Transpose(inst.Transposition)
		}
		return nil
	})
}

func (r *run) attachEndings() error {
	skips := r.globalSkips().Leaves()
	if r.cfg.RehearsalMark != "" {
		skips[0].Attach(notation.RehearsalMark{Text: r.cfg.RehearsalMark})
	}
	if r.cfg.FinalBarline != "" {
		skips[len(skips)-1].Attach(notation.BarLine{Abbreviation: r.cfg.FinalBarline})
	}
	if r.cfg.FinalMarkup != nil {
		voices := r.score.Contexts("Voice")
		if len(voices) > 0 {
			leaves := voices[len(voices)-1].Leaves()
			if len(leaves) > 0 {
				leaves[len(leaves)-1].Attach(*r.cfg.FinalMarkup)
			}
		}
	}
	return nil
}
