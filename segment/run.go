package segment

import (
	"fmt"
	"sort"

	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/rhythm"
	"github.com/npillmayer/scorekit/template"
)

// run holds the state of one invocation of Maker.Run. The score tree is
// owned by the run until it is handed out with the result.
type run struct {
	cfg          Config
	wrappers     []Wrapper
	score        *notation.Container
	state        *command.State
	stages       []stageRange
	offsets      []notation.Duration // start offset of every measure, plus the total
	cache        map[string]*leafIndex
	firstMeasure int
	checks       violationCollector
	seconds      float64
}

// stageRange is the 0-based range of measures [first, stop) of a stage.
type stageRange struct {
	first, stop int
}

// leafIndex caches the leaves of a voice with their start offsets.
type leafIndex struct {
	leaves  []*notation.Leaf
	offsets []notation.Duration
}

// Run builds the segment.
func (m *Maker) Run() (*Result, error) {
	r := newRun(m.cfg, m.wrappers)
	passes := []struct {
		name string
		fn   func() error
	}{
		{"skeleton", r.buildSkeleton},
		{"global context", r.populateGlobalContext},
		{"stage labels", r.labelStages},
		{"rhythm", r.makeRhythms},
		{"ties", r.stitchTies},
		{"commands", r.interpretCommands},
		{"continuation", r.continuePreviousSegment},
		{"decoration", r.decorate},
		{"checks", r.check},
	}
	for _, p := range passes {
		tracer().Debugf("segment %s: pass %s", m.cfg.Name, p.name)
		if err := p.fn(); err != nil {
			tracer().Errorf("segment %s: pass %s failed: %v", m.cfg.Name, p.name, err)
			return nil, err
		}
	}
	res := &Result{
		Score:      r.score,
		Metadata:   r.metadata(),
		Violations: r.checks.violations,
		Stages:     r.stageInfo(),
		Seconds:    r.seconds,
	}
	tracer().Infof("segment %s: %d measures, %d violations", m.cfg.Name, len(m.cfg.TimeSignatures), len(res.Violations))
	return res, nil
}

func newRun(cfg Config, wrappers []Wrapper) *run {
	r := &run{cfg: cfg, wrappers: wrappers, cache: map[string]*leafIndex{}, firstMeasure: 1}
	var persisted map[string]command.Persisted
	if cfg.Previous != nil {
		persisted = cfg.Previous.Persist
		r.firstMeasure = cfg.Previous.NextMeasureNumber()
	}
	r.state = command.NewState(persisted)
	r.offsets = make([]notation.Duration, len(cfg.TimeSignatures)+1)
	for i, ts := range cfg.TimeSignatures {
		r.offsets[i+1] = r.offsets[i].Add(ts.Duration())
	}
	if len(cfg.MeasuresPerStage) == 0 {
		r.stages = []stageRange{{0, len(cfg.TimeSignatures)}}
	} else {
		first := 0
		for _, n := range cfg.MeasuresPerStage {
			r.stages = append(r.stages, stageRange{first, first + n})
			first += n
		}
	}
	return r
}

// --- Pass 1 ------------------------------------------------------------------

func (r *run) buildSkeleton() error {
	r.score = r.cfg.Template.Build()
	for _, staff := range r.cfg.Template.Staves() {
		clef := staff.Clef
		if clef == "" {
			clef = notation.Treble
		}
		if prev := r.cfg.Previous; prev != nil {
			if name, ok := prev.EndClefs[staff.Name]; ok {
				if c, err := notation.ParseClef(name); err == nil {
					clef = c
				}
			}
		}
		r.state.DefaultClefs[staff.Name] = clef
	}
	return nil
}

// --- Pass 2 ------------------------------------------------------------------

func (r *run) globalSkips() *notation.Container {
	return r.score.FindContext(template.GlobalSkipsName)
}

func (r *run) populateGlobalContext() error {
	skips := r.globalSkips()
	rests := r.score.FindContext(template.GlobalRestsName)
	if skips == nil || rests == nil {
		return fmt.Errorf("template %s has no global context", r.cfg.Template.Name())
	}
	for i, ts := range r.cfg.TimeSignatures {
		skip := notation.NewSkip(ts.Duration())
		if i == 0 || ts != r.cfg.TimeSignatures[i-1] {
			skip.Attach(ts)
		}
		skips.Append(skip)
		rests.Append(notation.NewMultiMeasureRest(ts.Duration()))
	}
	leaves := skips.Leaves()
	if r.firstMeasure > 1 {
		leaves[0].Attach(notation.BarNumber{Number: r.firstMeasure})
	}
	for _, mm := range r.cfg.MetronomeMarkMap {
		mark, ok := r.cfg.MetronomeMarks[mm.Mark]
		if !ok {
			return fmt.Errorf("unknown metronome mark %q", mm.Mark)
		}
		mark.Name = mm.Mark
		l := leaves[mm.Measure-1]
		l.Detach(func(ind notation.Indicator) bool {
			_, ok := ind.(notation.MetronomeMark)
			return ok
		})
		l.Attach(mark)
	}
	return nil
}

// --- Pass 3 ------------------------------------------------------------------

func (r *run) labelStages() error {
	if !r.cfg.LabelStages {
		return nil
	}
	leaves := r.globalSkips().Leaves()
	for i, st := range r.stages {
		leaves[st.first].Attach(markup.StageLabel(r.cfg.Name, i+1))
	}
	return nil
}

// --- Pass 4 ------------------------------------------------------------------

type contribution struct {
	command string
	start   notation.Duration
	leaves  []*notation.Leaf
}

func (r *run) makeRhythms() error {
	for _, staff := range r.cfg.Template.Staves() {
		for _, vs := range staff.Voices {
			if err := r.makeVoiceRhythm(vs); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) makeVoiceRhythm(vs template.VoiceSpec) error {
	voice := r.score.FindContext(vs.Name)
	if voice == nil {
		return ScopeError{Scope: Scope{Voice: vs.Name}, Issue: "voice missing in score"}
	}
	var contribs []contribution
	for _, w := range r.wrappers {
		rc, ok := w.Command.(*rhythm.Command)
		if !ok {
			continue
		}
		for _, s := range w.Scope {
			if s.Voice != vs.Name {
				continue
			}
			first, stop, err := r.measures(s)
			if err != nil {
				return err
			}
			leaves, err := rc.Make(rhythm.Divisions(r.cfg.TimeSignatures[first:stop]))
			if err != nil {
				return CommandError{Command: rc.String(), Scope: s.String(), Err: err}
			}
			contribs = append(contribs, contribution{
				command: rc.String(),
				start:   r.offsets[first],
				leaves:  leaves,
			})
		}
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].start.Less(contribs[j].start)
	})
	cursor := notation.Duration{}
	for _, c := range contribs {
		if c.start.Less(cursor) {
			return OverlapError{Voice: vs.Name, Command: c.command, Start: c.start, PreviousStop: cursor}
		}
		if cursor.Less(c.start) {
			appendLeaves(voice, r.fill(cursor, c.start, vs.FillSkips))
		}
		appendLeaves(voice, c.leaves)
		cursor = c.start.Add(notation.Select(c.leaves).Duration())
	}
	if total := r.offsets[len(r.offsets)-1]; cursor.Less(total) {
		appendLeaves(voice, r.fill(cursor, total, vs.FillSkips))
	}
	tracer().Debugf("voice %s: %d rhythm contributions", vs.Name, len(contribs))
	return nil
}

func appendLeaves(c *notation.Container, leaves []*notation.Leaf) {
	for _, l := range leaves {
		c.Append(l)
	}
}

// fill returns rests (or skips) filling [from, to), split at bar lines.
// Full measures are filled with multi-measure rests.
func (r *run) fill(from, to notation.Duration, skips bool) []*notation.Leaf {
	var leaves []*notation.Leaf
	for i := 0; i+1 < len(r.offsets); i++ {
		lo, hi := r.offsets[i], r.offsets[i+1]
		if !lo.Less(to) || !from.Less(hi) {
			continue
		}
		full := !lo.Less(from) && !to.Less(hi)
		if from.Cmp(lo) > 0 {
			lo = from
		}
		if to.Less(hi) {
			hi = to
		}
		d := hi.Sub(lo)
		switch {
		case skips:
			leaves = append(leaves, notation.NewSkip(d))
		case full:
			leaves = append(leaves, notation.NewMultiMeasureRest(d))
		default:
			leaves = append(leaves, notation.NewRest(d))
		}
	}
	return leaves
}

// --- Pass 5 ------------------------------------------------------------------

func (r *run) stitchTies() error {
	for _, voice := range r.score.Contexts("Voice") {
		leaves := voice.Leaves()
		for i, l := range leaves {
			if l.HasFlag(notation.FlagTieToMe) && i > 0 && leaves[i-1].IsPitched() && l.IsPitched() {
				leaves[i-1].Tied = true
			}
			if l.HasFlag(notation.FlagTieFromMe) && i+1 < len(leaves) && leaves[i+1].IsPitched() && l.IsPitched() {
				l.Tied = true
			}
			l.ClearFlag(notation.FlagTieToMe | notation.FlagTieFromMe)
		}
	}
	return nil
}

// --- Scope resolution ----------------------------------------------------------

// measures returns the 0-based measure range [first, stop) of a scope.
func (r *run) measures(s Scope) (int, int, error) {
	s0, s1, err := resolveStages(s, len(r.stages))
	if err != nil {
		return 0, 0, err
	}
	return r.stages[s0].first, r.stages[s1].stop, nil
}

// index returns the cached leaf index of a voice.
func (r *run) index(voice string) (*leafIndex, error) {
	if idx, ok := r.cache[voice]; ok {
		return idx, nil
	}
	v := r.score.FindContext(voice)
	if v == nil {
		return nil, ScopeError{Scope: Scope{Voice: voice}, Issue: "unknown voice"}
	}
	leaves := v.Leaves()
	idx := &leafIndex{leaves: leaves, offsets: notation.Offsets(leaves)}
	r.cache[voice] = idx
	return idx, nil
}

func (r *run) invalidate() {
	tracer().Debugf("score structure changed, dropping leaf cache")
	r.cache = map[string]*leafIndex{}
}

// selection returns the leaves of a compound scope: all leaves starting
// within the measures of each scope, in the order of the scopes.
func (r *run) selection(cs CompoundScope) (notation.Selection, error) {
	var leaves []*notation.Leaf
	for _, s := range cs {
		first, stop, err := r.measures(s)
		if err != nil {
			return notation.Selection{}, err
		}
		idx, err := r.index(s.Voice)
		if err != nil {
			return notation.Selection{}, err
		}
		lo, hi := r.offsets[first], r.offsets[stop]
		for i, l := range idx.leaves {
			if off := idx.offsets[i]; !off.Less(lo) && off.Less(hi) {
				leaves = append(leaves, l)
			}
		}
	}
	return notation.Select(leaves), nil
}
