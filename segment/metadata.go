package segment

import (
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/notation"
)

// Metadata is the state at the end of a segment which the next segment
// continues from. Clefs and instruments are keyed by staff name.
type Metadata struct {
	Segment            string                       `yaml:"segment" cbor:"1,keyasint"`
	FirstMeasureNumber int                          `yaml:"first_measure_number" cbor:"2,keyasint"`
	MeasureCount       int                          `yaml:"measure_count" cbor:"3,keyasint"`
	EndClefs           map[string]string            `yaml:"end_clefs,omitempty" cbor:"4,keyasint,omitempty"`
	EndInstruments     map[string]string            `yaml:"end_instruments,omitempty" cbor:"5,keyasint,omitempty"`
	EndMetronomeMark   string                       `yaml:"end_metronome_mark,omitempty" cbor:"6,keyasint,omitempty"`
	EndTimeSignature   string                       `yaml:"end_time_signature,omitempty" cbor:"7,keyasint,omitempty"`
	Persist            map[string]command.Persisted `yaml:"persist,omitempty" cbor:"8,keyasint,omitempty"`
}

// NextMeasureNumber is the number of the first measure of the next segment.
func (md *Metadata) NextMeasureNumber() int {
	first := md.FirstMeasureNumber
	if first < 1 {
		first = 1
	}
	return first + md.MeasureCount
}

// --- Pass 10 -----------------------------------------------------------------

func (r *run) metadata() Metadata {
	md := Metadata{
		Segment:            r.cfg.Name,
		FirstMeasureNumber: r.firstMeasure,
		MeasureCount:       len(r.cfg.TimeSignatures),
		EndClefs:           map[string]string{},
		EndInstruments:     map[string]string{},
		Persist:            map[string]command.Persisted{},
	}
	if ts := r.cfg.TimeSignatures; len(ts) > 0 {
		md.EndTimeSignature = ts[len(ts)-1].String()
	}
	prev := r.cfg.Previous
	if prev != nil {
		md.EndMetronomeMark = prev.EndMetronomeMark
		for k, v := range prev.Persist {
			md.Persist[k] = v
		}
	}
	for k, v := range r.state.Persist() {
		md.Persist[k] = v
	}
	for _, s := range r.globalSkips().Leaves() {
		if m, ok := notation.IndicatorOf[notation.MetronomeMark](s); ok && m.Name != "" {
			md.EndMetronomeMark = m.Name
		}
	}
	for _, staff := range r.cfg.Template.Staves() {
		clef := r.state.DefaultClefs[staff.Name]
		inst := r.startInstrument(staff)
		var clefAt, instAt *notation.Duration
		// latest in time wins; at equal offsets the later voice wins
		later := func(at *notation.Duration, off notation.Duration) bool {
			return at == nil || !off.Less(*at)
		}
		for _, vs := range staff.Voices {
			v := r.score.FindContext(vs.Name)
			if v == nil {
				continue
			}
			leaves := v.Leaves()
			offsets := notation.Offsets(leaves)
			for i, l := range leaves {
				off := offsets[i]
				if c, ok := notation.IndicatorOf[notation.Clef](l); ok && later(clefAt, off) {
					clef, clefAt = c, &off
				}
				if ic, ok := notation.IndicatorOf[notation.InstrumentChange](l); ok && later(instAt, off) {
					inst, instAt = ic.Key, &off
				}
			}
		}
		md.EndClefs[staff.Name] = string(clef)
		if inst != "" {
			md.EndInstruments[staff.Name] = inst
		}
	}
	return md
}

// StageInfo describes a stage of a finished segment.
type StageInfo struct {
	Number       int
	FirstMeasure int // measure number, counted across segments
	LastMeasure  int
	Start        notation.Duration
	Duration     notation.Duration
}

func (r *run) stageInfo() []StageInfo {
	infos := make([]StageInfo, len(r.stages))
	for i, st := range r.stages {
		infos[i] = StageInfo{
			Number:       i + 1,
			FirstMeasure: r.firstMeasure + st.first,
			LastMeasure:  r.firstMeasure + st.stop - 1,
			Start:        r.offsets[st.first],
			Duration:     r.offsets[st.stop].Sub(r.offsets[st.first]),
		}
	}
	return infos
}
