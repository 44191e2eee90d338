package notation

import "fmt"

// Defect is a well-formedness problem found in a score tree.
type Defect struct {
	Check string // short name of the check
	Voice string // name of the voice, if any
	Index int    // leaf index within the voice
	Leaf  *Leaf
	Issue string
}

func (d Defect) String() string {
	return fmt.Sprintf("%s: %s leaf %d (%s): %s", d.Check, d.Voice, d.Index, d.Leaf.Body(), d.Issue)
}

// CheckWellformedness checks all voices below root and returns every defect
// found. An empty result means the tree is well formed.
func CheckWellformedness(root *Container) []Defect {
	var defects []Defect
	voices := root.Contexts("Voice")
	voices = append(voices, root.Contexts("GlobalSkips")...)
	voices = append(voices, root.Contexts("GlobalRests")...)
	for _, v := range voices {
		defects = append(defects, checkVoice(v)...)
	}
	tracer().Debugf("well-formedness check found %d defects", len(defects))
	return defects
}

func checkVoice(v *Container) []Defect {
	var defects []Defect
	report := func(check string, i int, l *Leaf, format string, args ...any) {
		defects = append(defects, Defect{
			Check: check,
			Voice: v.Name,
			Index: i,
			Leaf:  l,
			Issue: fmt.Sprintf(format, args...),
		})
	}
	leaves := v.Leaves()
	beamOpen := -1
	hairpinOpen := -1
	for i, l := range leaves {
		// ties
		if l.Tied {
			switch {
			case !l.IsPitched():
				report("ties", i, l, "%s must not be tied", l.Kind)
			case i+1 >= len(leaves):
				report("ties", i, l, "tie dangles at end of voice")
			case !leaves[i+1].IsPitched():
				report("ties", i, l, "tie into %s", leaves[i+1].Kind)
			case !samePitches(l.Pitches, leaves[i+1].Pitches):
				report("ties", i, l, "tie between different pitches %v and %v", l.Pitches, leaves[i+1].Pitches)
			}
		}
		if !l.Written.IsAssignable() {
			report("durations", i, l, "written duration %s is not assignable", l.Written)
		}
		// exclusive indicators
		kinds := map[string]bool{}
		for _, ind := range l.indicators {
			k := exclusiveKind(ind)
			if k == "" {
				continue
			}
			if kinds[k] {
				report("indicators", i, l, "more than one %s", k)
			}
			kinds[k] = true
		}
		// beams and hairpins
		for _, ind := range l.indicators {
			switch ind.(type) {
			case BeamStart:
				if beamOpen >= 0 {
					report("beams", i, l, "beam started while beam from leaf %d is open", beamOpen)
				}
				beamOpen = i
			case BeamStop:
				if beamOpen < 0 {
					report("beams", i, l, "beam stopped without being started")
				}
				beamOpen = -1
			case HairpinStart:
				hairpinOpen = i
			case HairpinStop:
				if hairpinOpen < 0 {
					report("hairpins", i, l, "hairpin stopped without being started")
				}
				hairpinOpen = -1
			case Dynamic:
				if hairpinOpen >= 0 && hairpinOpen != i {
					hairpinOpen = -1
				}
			}
		}
	}
	if beamOpen >= 0 {
		report("beams", beamOpen, leaves[beamOpen], "beam is never stopped")
	}
	if hairpinOpen >= 0 {
		report("hairpins", hairpinOpen, leaves[hairpinOpen], "hairpin is never stopped")
	}
	return defects
}

func samePitches(a, b []NamedPitch) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Number() != b[i].Number() {
			return false
		}
	}
	return true
}
