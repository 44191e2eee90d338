package notation

// Selection is an ordered set of leaves, usually from a single voice.
type Selection struct {
	leaves []*Leaf
}

// Select creates a selection from leaves.
func Select(leaves []*Leaf) Selection {
	return Selection{leaves: leaves}
}

// Leaves returns the selected leaves.
func (s Selection) Leaves() []*Leaf { return s.leaves }

// Len returns the number of selected leaves.
func (s Selection) Len() int { return len(s.leaves) }

// IsEmpty is true for an empty selection.
func (s Selection) IsEmpty() bool { return len(s.leaves) == 0 }

// Duration sums the durations of the selected leaves.
func (s Selection) Duration() Duration {
	total := Duration{}
	for _, l := range s.leaves {
		total = total.Add(l.Duration())
	}
	return total
}

// Filter selects the leaves for which pred returns true.
func (s Selection) Filter(pred func(*Leaf) bool) Selection {
	var out []*Leaf
	for _, l := range s.leaves {
		if pred(l) {
			out = append(out, l)
		}
	}
	return Selection{leaves: out}
}

// Pitched selects notes and chords.
func (s Selection) Pitched() Selection {
	return s.Filter((*Leaf).IsPitched)
}

// Rests selects rests and multi-measure rests.
func (s Selection) Rests() Selection {
	return s.Filter((*Leaf).IsRest)
}

// LogicalTies returns the logical ties whose heads are in s. Ties extend
// beyond the end of the selection if the last selected leaf is tied on.
func (s Selection) LogicalTies() []*LogicalTie {
	var ties []*LogicalTie
	seen := make(map[*Leaf]bool, len(s.leaves))
	idx := newVoiceIndex()
	for _, l := range s.leaves {
		if seen[l] {
			continue
		}
		if prev := idx.prev(l); prev != nil && tiesInto(prev, l) {
			continue // l is not a head
		}
		lt := &LogicalTie{Leaves: []*Leaf{l}}
		seen[l] = true
		for cur := l; ; {
			next := idx.next(cur)
			if next == nil || !tiesInto(cur, next) {
				break
			}
			lt.Leaves = append(lt.Leaves, next)
			seen[next] = true
			cur = next
		}
		ties = append(ties, lt)
	}
	return ties
}

// PLTs returns the pitched logical ties with heads in s.
func (s Selection) PLTs() []*LogicalTie {
	var plts []*LogicalTie
	for _, lt := range s.LogicalTies() {
		if lt.IsPitched() {
			plts = append(plts, lt)
		}
	}
	return plts
}

func tiesInto(a, b *Leaf) bool {
	return a.Tied && a.IsPitched() && b.IsPitched()
}

// voiceIndex caches leaf order per voice while computing logical ties.
type voiceIndex struct {
	leaves map[*Container][]*Leaf
	pos    map[*Leaf]int
}

func newVoiceIndex() *voiceIndex {
	return &voiceIndex{leaves: map[*Container][]*Leaf{}, pos: map[*Leaf]int{}}
}

func (vi *voiceIndex) lookup(l *Leaf) ([]*Leaf, int) {
	v := l.Voice()
	if v == nil {
		return nil, -1
	}
	leaves, ok := vi.leaves[v]
	if !ok {
		leaves = v.Leaves()
		vi.leaves[v] = leaves
		for i, x := range leaves {
			vi.pos[x] = i
		}
	}
	i, ok := vi.pos[l]
	if !ok {
		return nil, -1
	}
	return leaves, i
}

func (vi *voiceIndex) next(l *Leaf) *Leaf {
	leaves, i := vi.lookup(l)
	if i < 0 || i+1 >= len(leaves) {
		return nil
	}
	return leaves[i+1]
}

func (vi *voiceIndex) prev(l *Leaf) *Leaf {
	leaves, i := vi.lookup(l)
	if i <= 0 {
		return nil
	}
	return leaves[i-1]
}

// --- Logical ties ----------------------------------------------------------

// LogicalTie is a run of tied leaves acting as one pitch-bearing unit.
type LogicalTie struct {
	Leaves []*Leaf
}

// Head returns the first leaf of the tie.
func (lt *LogicalTie) Head() *Leaf { return lt.Leaves[0] }

// Tail returns the last leaf of the tie.
func (lt *LogicalTie) Tail() *Leaf { return lt.Leaves[len(lt.Leaves)-1] }

// IsPitched is true if the head is a note or chord.
func (lt *LogicalTie) IsPitched() bool { return lt.Head().IsPitched() }

// IsRest is true if the head is a rest.
func (lt *LogicalTie) IsRest() bool { return lt.Head().IsRest() }

// Duration sums the durations of all members.
func (lt *LogicalTie) Duration() Duration {
	return Select(lt.Leaves).Duration()
}

// Pitches returns the pitches of the head.
func (lt *LogicalTie) Pitches() []NamedPitch { return lt.Head().Pitches }

// SetPitches rewrites every member of the tie. No pitches turn the tie into
// rests, one pitch into notes, more into chords. Rests are never tied, so a
// tie into the head from a preceding leaf is dropped as well.
func (lt *LogicalTie) SetPitches(ps []NamedPitch) {
	kind := NoteLeaf
	switch {
	case len(ps) == 0:
		kind = RestLeaf
	case len(ps) > 1:
		kind = ChordLeaf
	}
	for _, l := range lt.Leaves {
		l.ClearFlag(FlagNotYetPitched)
		if kind == RestLeaf {
			l.Kind = RestLeaf
			l.Pitches = nil
			l.Tied = false
			continue
		}
		if l.Kind == MultiMeasureRestLeaf || l.Kind == SkipLeaf {
			tracer().Errorf("cannot pitch %s", l)
			continue
		}
		l.Kind = kind
		l.Pitches = append([]NamedPitch(nil), ps...)
	}
	if kind == RestLeaf {
		if prev := lt.Head().Prev(); prev != nil {
			prev.Tied = false
		}
	}
}

// SetPitch is a shortcut for a single pitch.
func (lt *LogicalTie) SetPitch(p NamedPitch) {
	lt.SetPitches([]NamedPitch{p})
}

// --- Selectors -------------------------------------------------------------

// Selector narrows a selection.
type Selector func(Selection) Selection

// Chain applies selectors in order.
func Chain(selectors ...Selector) Selector {
	return func(s Selection) Selection {
		for _, sel := range selectors {
			if sel != nil {
				s = sel(s)
			}
		}
		return s
	}
}

// AllLeaves selects everything.
func AllLeaves() Selector {
	return func(s Selection) Selection { return s }
}

// PitchedLeaves selects notes and chords.
func PitchedLeaves() Selector {
	return func(s Selection) Selection { return s.Pitched() }
}

// RestLeaves selects rests.
func RestLeaves() Selector {
	return func(s Selection) Selection { return s.Rests() }
}

// PLTs selects the leaves of all pitched logical ties.
func PLTs() Selector {
	return func(s Selection) Selection {
		var out []*Leaf
		for _, lt := range s.PLTs() {
			out = append(out, lt.Leaves...)
		}
		return Selection{leaves: out}
	}
}

// PLT selects the leaves of the i-th pitched logical tie. Negative indices
// count from the end.
func PLT(i int) Selector {
	return func(s Selection) Selection {
		plts := s.PLTs()
		k := i
		if k < 0 {
			k += len(plts)
		}
		if k < 0 || k >= len(plts) {
			return Selection{}
		}
		return Selection{leaves: append([]*Leaf(nil), plts[k].Leaves...)}
	}
}

// LeafAt selects the i-th leaf. Negative indices count from the end.
func LeafAt(i int) Selector {
	return func(s Selection) Selection {
		n, k := len(s.leaves), i
		if k < 0 {
			k += n
		}
		if k < 0 || k >= n {
			return Selection{}
		}
		return Selection{leaves: []*Leaf{s.leaves[k]}}
	}
}

// LeafRange selects leaves [start, stop). Negative values count from the
// end; stop is clipped.
func LeafRange(start, stop int) Selector {
	return func(s Selection) Selection {
		n, lo, hi := len(s.leaves), start, stop
		if lo < 0 {
			lo += n
		}
		if hi < 0 {
			hi += n
		}
		lo, hi = max(lo, 0), min(hi, n)
		if lo >= hi {
			return Selection{}
		}
		return Selection{leaves: s.leaves[lo:hi]}
	}
}
