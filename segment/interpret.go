package segment

import (
	"errors"
	"fmt"

	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/instrument"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/rhythm"
	"github.com/npillmayer/scorekit/template"
)

// --- Pass 6 ------------------------------------------------------------------

// interpretCommands applies all non-rhythm commands in registration order.
func (r *run) interpretCommands() error {
	for _, w := range r.wrappers {
		if _, ok := w.Command.(*rhythm.Command); ok {
			continue
		}
		sel, err := r.selection(w.Scope)
		if err != nil {
			return err
		}
		if sel.IsEmpty() {
			if r.cfg.AllowEmptySelections {
				tracer().Infof("%s: empty selection, skipped", w)
				continue
			}
			return ScopeError{Scope: w.Scope[0], Issue: fmt.Sprintf("empty selection for %s", w.Command)}
		}
		if err := w.Command.Apply(r.state, sel); err != nil {
			if errors.Is(err, command.ErrEmptySelection) && r.cfg.AllowEmptySelections {
				tracer().Infof("%s: %v, skipped", w, err)
				continue
			}
			tracer().Errorf("%s failed: %v", w, err)
			return CommandError{Command: w.Command.String(), Scope: w.Scope.String(), Err: err}
		}
		if r.state.Mutated() {
			r.invalidate()
		}
	}
	return nil
}

// --- Pass 7 ------------------------------------------------------------------

// firstLeaf returns the first leaf of the first voice of a staff.
func (r *run) firstLeaf(staff template.StaffSpec) *notation.Leaf {
	if len(staff.Voices) == 0 {
		return nil
	}
	v := r.score.FindContext(staff.Voices[0].Name)
	if v == nil {
		return nil
	}
	leaves := v.Leaves()
	if len(leaves) == 0 {
		return nil
	}
	return leaves[0]
}

// startInstrument returns the instrument key a staff starts with.
func (r *run) startInstrument(staff template.StaffSpec) string {
	if prev := r.cfg.Previous; prev != nil {
		if key, ok := prev.EndInstruments[staff.Name]; ok {
			return key
		}
	}
	return staff.Instrument
}

// continuePreviousSegment attaches the clef, instrument and metronome mark
// in effect at the start of the segment, unless the first leaf already
// carries one explicitly.
func (r *run) continuePreviousSegment() error {
	for _, staff := range r.cfg.Template.Staves() {
		first := r.firstLeaf(staff)
		if first == nil {
			continue
		}
		if !notation.HasIndicator[notation.Clef](first) {
			first.Attach(r.state.DefaultClefs[staff.Name])
		}
		if !notation.HasIndicator[notation.InstrumentChange](first) {
			if key := r.startInstrument(staff); key != "" {
				inst, ok := instrument.Lookup(key)
				if !ok {
					return fmt.Errorf("staff %s: unknown instrument %q", staff.Name, key)
				}
				first.Attach(inst.Change())
			}
		}
	}
	prev := r.cfg.Previous
	if prev == nil || prev.EndMetronomeMark == "" {
		return nil
	}
	skips := r.globalSkips().Leaves()
	if len(skips) == 0 || notation.HasIndicator[notation.MetronomeMark](skips[0]) {
		return nil
	}
	mark, ok := r.cfg.MetronomeMarks[prev.EndMetronomeMark]
	if !ok {
		tracer().Infof("metronome mark %q of previous segment is unknown", prev.EndMetronomeMark)
		return nil
	}
	mark.Name = prev.EndMetronomeMark
	skips[0].Attach(mark)
	return nil
}
