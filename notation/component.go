package notation

import (
	"fmt"
	"strings"
)

// Component is a node of a score tree: either a *Leaf or a *Container.
type Component interface {
	Parent() *Container
	Duration() Duration
	setParent(*Container)
}

// LeafKind is the closed set of leaf variants.
type LeafKind uint8

const (
	NoteLeaf LeafKind = iota
	ChordLeaf
	RestLeaf
	MultiMeasureRestLeaf
	SkipLeaf
)

func (k LeafKind) String() string {
	switch k {
	case NoteLeaf:
		return "note"
	case ChordLeaf:
		return "chord"
	case RestLeaf:
		return "rest"
	case MultiMeasureRestLeaf:
		return "multi-measure rest"
	case SkipLeaf:
		return "skip"
	}
	return "unknown"
}

// LeafFlag marks leaves for later pipeline passes.
type LeafFlag uint8

const (
	// FlagTieToMe asks for a tie from the preceding leaf into this one.
	FlagTieToMe LeafFlag = 1 << iota
	// FlagTieFromMe asks for a tie from this leaf into the following one.
	FlagTieFromMe
	// FlagNotYetPitched marks placeholder notes made by rhythm makers.
	FlagNotYetPitched
)

// Leaf is a note, chord, rest, multi-measure rest or skip.
type Leaf struct {
	parent     *Container
	Kind       LeafKind
	Pitches    []NamedPitch // one pitch for notes, two or more for chords
	Written    Duration     // written duration, must be assignable
	Multiplier Duration     // zero means no multiplier
	Tied       bool         // tied to the next leaf in the voice
	Flags      LeafFlag
	indicators []Indicator
}

// NewNote creates a note.
func NewNote(p NamedPitch, d Duration) *Leaf {
	return &Leaf{Kind: NoteLeaf, Pitches: []NamedPitch{p}, Written: d}
}

// NewChord creates a chord from at least two pitches; with a single pitch
// a note is created instead.
func NewChord(ps []NamedPitch, d Duration) *Leaf {
	if len(ps) == 1 {
		return NewNote(ps[0], d)
	}
	return &Leaf{Kind: ChordLeaf, Pitches: append([]NamedPitch(nil), ps...), Written: d}
}

// NewRest creates a rest. If d is not assignable, the rest is written as a
// whole rest with multiplier d.
func NewRest(d Duration) *Leaf {
	if d.IsAssignable() {
		return &Leaf{Kind: RestLeaf, Written: d}
	}
	return &Leaf{Kind: RestLeaf, Written: D(1, 1), Multiplier: d}
}

// NewMultiMeasureRest creates a multi-measure rest filling duration d.
func NewMultiMeasureRest(d Duration) *Leaf {
	return &Leaf{Kind: MultiMeasureRestLeaf, Written: D(1, 1), Multiplier: d}
}

// NewSkip creates a skip filling duration d.
func NewSkip(d Duration) *Leaf {
	return &Leaf{Kind: SkipLeaf, Written: D(1, 1), Multiplier: d}
}

// Parent returns the container holding l.
func (l *Leaf) Parent() *Container { return l.parent }

func (l *Leaf) setParent(c *Container) { l.parent = c }

// Duration returns written duration times multiplier.
func (l *Leaf) Duration() Duration {
	if l.Multiplier.IsZero() {
		return l.Written
	}
	return l.Written.Mul(l.Multiplier)
}

// IsPitched is true for notes and chords.
func (l *Leaf) IsPitched() bool {
	return l.Kind == NoteLeaf || l.Kind == ChordLeaf
}

// IsRest is true for rests and multi-measure rests.
func (l *Leaf) IsRest() bool {
	return l.Kind == RestLeaf || l.Kind == MultiMeasureRestLeaf
}

// HasFlag checks a leaf flag.
func (l *Leaf) HasFlag(f LeafFlag) bool { return l.Flags&f != 0 }

// SetFlag sets a leaf flag.
func (l *Leaf) SetFlag(f LeafFlag) { l.Flags |= f }

// ClearFlag clears a leaf flag.
func (l *Leaf) ClearFlag(f LeafFlag) { l.Flags &^= f }

// Attach adds an indicator to l.
func (l *Leaf) Attach(ind Indicator) {
	l.indicators = append(l.indicators, ind)
}

// Indicators returns the attached indicators in attachment order.
func (l *Leaf) Indicators() []Indicator {
	return l.indicators
}

// Detach removes all indicators for which match returns true and reports how
// many were removed.
func (l *Leaf) Detach(match func(Indicator) bool) int {
	kept := l.indicators[:0]
	n := 0
	for _, ind := range l.indicators {
		if match(ind) {
			n++
			continue
		}
		kept = append(kept, ind)
	}
	for i := len(kept); i < len(l.indicators); i++ {
		l.indicators[i] = nil
	}
	l.indicators = kept
	return n
}

// IndicatorOf returns the first indicator of type T attached to l.
func IndicatorOf[T Indicator](l *Leaf) (T, bool) {
	for _, ind := range l.indicators {
		if t, ok := ind.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// HasIndicator is true if l carries an indicator of type T.
func HasIndicator[T Indicator](l *Leaf) bool {
	_, ok := IndicatorOf[T](l)
	return ok
}

// Body returns the LilyPond text of the leaf itself, without indicators.
func (l *Leaf) Body() string {
	var sb strings.Builder
	switch l.Kind {
	case NoteLeaf:
		if len(l.Pitches) > 0 {
			sb.WriteString(l.Pitches[0].Name())
		} else {
			sb.WriteString(MiddleC.Name())
		}
	case ChordLeaf:
		sb.WriteByte('<')
		for i, p := range l.Pitches {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.Name())
		}
		sb.WriteByte('>')
	case RestLeaf:
		sb.WriteByte('r')
	case MultiMeasureRestLeaf:
		sb.WriteByte('R')
	case SkipLeaf:
		sb.WriteByte('s')
	}
	sb.WriteString(l.Written.Lilypond())
	if !l.Multiplier.IsZero() && !l.Multiplier.Equal(D(1, 1)) {
		sb.WriteString(" * ")
		sb.WriteString(l.Multiplier.String())
	}
	return sb.String()
}

func (l *Leaf) String() string {
	return fmt.Sprintf("%s(%s)", l.Kind, l.Body())
}

// Voice returns the closest enclosing container with context "Voice", or
// the root container if there is none.
func (l *Leaf) Voice() *Container {
	var last *Container
	for c := l.parent; c != nil; c = c.parent {
		if c.Context == "Voice" || c.Context == "GlobalSkips" || c.Context == "GlobalRests" {
			return c
		}
		last = c
	}
	return last
}

// Staff returns the closest enclosing container with context "Staff", or nil.
func (l *Leaf) Staff() *Container {
	for c := l.parent; c != nil; c = c.parent {
		if c.Context == "Staff" {
			return c
		}
	}
	return nil
}

// Next returns the leaf following l in its voice, or nil.
func (l *Leaf) Next() *Leaf {
	return l.sibling(+1)
}

// Prev returns the leaf preceding l in its voice, or nil.
func (l *Leaf) Prev() *Leaf {
	return l.sibling(-1)
}

func (l *Leaf) sibling(dir int) *Leaf {
	v := l.Voice()
	if v == nil {
		return nil
	}
	leaves := v.Leaves()
	for i, x := range leaves {
		if x == l {
			if j := i + dir; j >= 0 && j < len(leaves) {
				return leaves[j]
			}
			return nil
		}
	}
	return nil
}

// --- Containers ------------------------------------------------------------

// Container is a sequential or simultaneous container. Named contexts
// (Score, Staff, Voice, …) have a non-empty Context.
type Container struct {
	parent       *Container
	Name         string
	Context      string
	Simultaneous bool
	Prefix       string // e.g. `\repeat volta 2`
	children     []Component
}

// NewContext creates a named sequential context like a voice.
func NewContext(context, name string) *Container {
	return &Container{Context: context, Name: name}
}

// NewSimultaneousContext creates a named simultaneous context like a staff
// group.
func NewSimultaneousContext(context, name string) *Container {
	return &Container{Context: context, Name: name, Simultaneous: true}
}

// NewContainer creates an anonymous sequential container.
func NewContainer(children ...Component) *Container {
	c := &Container{}
	c.Append(children...)
	return c
}

// Parent returns the enclosing container.
func (c *Container) Parent() *Container { return c.parent }

func (c *Container) setParent(p *Container) { c.parent = p }

// Children returns the child components. The slice must not be modified.
func (c *Container) Children() []Component { return c.children }

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// Append adds components at the end, detaching them from former parents.
func (c *Container) Append(comps ...Component) {
	for _, x := range comps {
		detach(x)
		x.setParent(c)
		c.children = append(c.children, x)
	}
}

// Index returns the position of child x, or -1.
func (c *Container) Index(x Component) int {
	for i, ch := range c.children {
		if ch == x {
			return i
		}
	}
	return -1
}

// Replace replaces children [start, stop) with comps.
func (c *Container) Replace(start, stop int, comps ...Component) {
	if start < 0 || stop > len(c.children) || start > stop {
		panic(fmt.Sprintf("notation: invalid replace range [%d,%d) of %d", start, stop, len(c.children)))
	}
	for _, old := range c.children[start:stop] {
		old.setParent(nil)
	}
	for _, x := range comps {
		detach(x)
		x.setParent(c)
	}
	tail := append([]Component(nil), c.children[stop:]...)
	c.children = append(append(c.children[:start], comps...), tail...)
}

// Wrap moves children [start, stop) into w and puts w in their place.
func (c *Container) Wrap(start, stop int, w *Container) {
	moved := append([]Component(nil), c.children[start:stop]...)
	c.Replace(start, stop, w)
	w.Append(moved...)
}

// Duration returns the duration of the contents: the sum of the children
// for sequential containers, the maximum for simultaneous ones.
func (c *Container) Duration() Duration {
	total := Duration{}
	for _, ch := range c.children {
		if c.Simultaneous {
			if d := ch.Duration(); total.Less(d) {
				total = d
			}
		} else {
			total = total.Add(ch.Duration())
		}
	}
	return total
}

// Leaves returns all leaves below c in depth-first order.
func (c *Container) Leaves() []*Leaf {
	var leaves []*Leaf
	Walk(c, func(x Component) bool {
		if l, ok := x.(*Leaf); ok {
			leaves = append(leaves, l)
		}
		return true
	})
	return leaves
}

// FindContext returns the descendant (or c itself) with the given name.
func (c *Container) FindContext(name string) *Container {
	var found *Container
	Walk(c, func(x Component) bool {
		if found != nil {
			return false
		}
		if ct, ok := x.(*Container); ok && ct.Name == name {
			found = ct
			return false
		}
		return true
	})
	return found
}

// Contexts returns all descendants (including c) with context type ctx.
func (c *Container) Contexts(ctx string) []*Container {
	var found []*Container
	Walk(c, func(x Component) bool {
		if ct, ok := x.(*Container); ok && ct.Context == ctx {
			found = append(found, ct)
		}
		return true
	})
	return found
}

func (c *Container) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s(%q)", c.Context, c.Name)
	}
	return fmt.Sprintf("Container(%d)", len(c.children))
}

func detach(x Component) {
	if p := x.Parent(); p != nil {
		if i := p.Index(x); i >= 0 {
			p.children = append(p.children[:i], p.children[i+1:]...)
		}
		x.setParent(nil)
	}
}

// Walk visits x and its descendants depth-first. If visit returns false,
// the children of the current component are skipped.
func Walk(x Component, visit func(Component) bool) {
	if !visit(x) {
		return
	}
	if c, ok := x.(*Container); ok {
		for _, ch := range c.children {
			Walk(ch, visit)
		}
	}
}

// Offsets returns the start offset of every leaf of a sequential voice.
func Offsets(leaves []*Leaf) []Duration {
	offsets := make([]Duration, len(leaves))
	t := Duration{}
	for i, l := range leaves {
		offsets[i] = t
		t = t.Add(l.Duration())
	}
	return offsets
}
