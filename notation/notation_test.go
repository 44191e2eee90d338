package notation

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestDurationArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.notation")
	defer teardown()
	//
	d := D(1, 8).Add(D(1, 4))
	if !d.Equal(D(3, 8)) {
		t.Errorf("expected 1/8 + 1/4 = 3/8, is %s", d)
	}
	if D(6, 16).String() != "3/8" {
		t.Errorf("expected 6/16 to be reduced to 3/8, is %s", D(6, 16))
	}
	if !D(1, 2).Sub(D(3, 8)).Equal(D(1, 8)) {
		t.Errorf("expected 1/2 - 3/8 = 1/8")
	}
	if D(1, 4).Cmp(D(1, 8)) != 1 || D(1, 8).Cmp(D(1, 4)) != -1 {
		t.Errorf("comparison of 1/4 and 1/8 is broken")
	}
	var zero Duration
	if !zero.Add(D(1, 4)).Equal(D(1, 4)) {
		t.Errorf("zero value duration should act as 0")
	}
}

func TestDurationLilypond(t *testing.T) {
	cases := map[Duration]string{
		D(1, 1):  "1",
		D(1, 4):  "4",
		D(3, 8):  "4.",
		D(7, 16): "4..",
		D(1, 8):  "8",
		D(2, 1):  `\breve`,
		D(3, 2):  "1.",
		D(5, 8):  "",
	}
	for d, expected := range cases {
		if s := d.Lilypond(); s != expected {
			t.Errorf("expected %s to format as %q, is %q", d, expected, s)
		}
	}
}

func TestDurationPartition(t *testing.T) {
	parts := D(5, 16).Partition()
	if len(parts) != 2 || !parts[0].Equal(D(1, 4)) || !parts[1].Equal(D(1, 16)) {
		t.Errorf("expected 5/16 = 1/4 + 1/16, is %v", parts)
	}
	parts = D(5, 8).Partition()
	if len(parts) != 2 || !parts[0].Equal(D(1, 2)) || !parts[1].Equal(D(1, 8)) {
		t.Errorf("expected 5/8 = 1/2 + 1/8, is %v", parts)
	}
	parts = D(3, 8).Partition()
	if len(parts) != 1 {
		t.Errorf("expected 3/8 to be assignable, is %v", parts)
	}
}

func TestTimeSignatures(t *testing.T) {
	ts, err := TimeSignatures("4/8", "3/8", "4/8", "3/8")
	if err != nil {
		t.Fatal(err)
	}
	if total := SumDurations(ts); !total.Equal(D(7, 4)) {
		t.Errorf("expected 14/8 = 7/4, is %s", total)
	}
	if _, err := ParseTimeSignature("3/7"); err == nil {
		t.Errorf("expected 3/7 to be rejected")
	}
}

func TestPitchNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.notation")
	defer teardown()
	//
	names := map[int]string{
		0: "c'", 1: "cs'", 3: "ef'", 12: "c''", 13: "cs''", 15: "ef''",
		16: "e''", 17: "f''", 19: "g''", 23: "b''", -1: "b", -12: "c", -25: "b,,",
	}
	for n, name := range names {
		p := PitchFromNumber(n)
		if p.Name() != name {
			t.Errorf("expected pitch number %d to be spelled %s, is %s", n, name, p.Name())
		}
		q, err := ParsePitch(name)
		if err != nil {
			t.Fatalf("cannot parse %s: %v", name, err)
		}
		if q.Number() != n {
			t.Errorf("expected %s to have number %d, has %d", name, n, q.Number())
		}
	}
	if _, err := ParsePitch("h'"); err == nil {
		t.Errorf("expected pitch h' to be rejected")
	}
}

func TestStaffPositions(t *testing.T) {
	c4 := MustParsePitch("c'")
	expected := map[Clef]int{Treble: -6, Alto: 0, Tenor: 2, Bass: 6}
	for clef, pos := range expected {
		if p := c4.StaffPosition(clef); p != pos {
			t.Errorf("expected c' at staff position %d in %s clef, is %d", pos, clef, p)
		}
		if back := PitchFromStaffPosition(pos, clef); back.Number() != 0 {
			t.Errorf("expected staff position %d in %s clef to be c', is %s", pos, clef, back)
		}
	}
	if p := PitchFromStaffPosition(0, Treble); p.Name() != "b'" {
		t.Errorf("expected middle line of treble staff to be b', is %s", p)
	}
}

func makeVoice(leaves ...*Leaf) *Container {
	v := NewContext("Voice", "TestVoice")
	for _, l := range leaves {
		v.Append(l)
	}
	return v
}

func TestLogicalTies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.notation")
	defer teardown()
	//
	a := NewNote(MiddleC, D(1, 4))
	b := NewNote(MiddleC, D(1, 8))
	c := NewRest(D(1, 8))
	d := NewNote(MiddleC, D(1, 4))
	a.Tied = true
	v := makeVoice(a, b, c, d)
	ties := Select(v.Leaves()).LogicalTies()
	if len(ties) != 3 {
		t.Fatalf("expected 3 logical ties, have %d", len(ties))
	}
	if len(ties[0].Leaves) != 2 || !ties[0].Duration().Equal(D(3, 8)) {
		t.Errorf("expected first logical tie to have two leaves and duration 3/8")
	}
	plts := Select(v.Leaves()).PLTs()
	if len(plts) != 2 {
		t.Errorf("expected 2 pitched logical ties, have %d", len(plts))
	}
	// selecting only the second member must not yield a tie head
	if n := len(Select([]*Leaf{b}).LogicalTies()); n != 0 {
		t.Errorf("expected no logical tie headed by a tie member, have %d", n)
	}
}

func TestSetPitchesKeepsTieConsistent(t *testing.T) {
	a := NewNote(MiddleC, D(1, 4))
	b := NewNote(MiddleC, D(1, 8))
	a.Tied = true
	v := makeVoice(a, b)
	lt := Select(v.Leaves()).LogicalTies()[0]
	lt.SetPitches([]NamedPitch{MustParsePitch("e'"), MustParsePitch("g'")})
	for _, l := range lt.Leaves {
		if l.Kind != ChordLeaf || len(l.Pitches) != 2 {
			t.Errorf("expected all tie members to become chords, got %s", l)
		}
	}
	lt.SetPitches(nil)
	for _, l := range lt.Leaves {
		if l.Kind != RestLeaf || l.Tied {
			t.Errorf("expected all tie members to become untied rests, got %s", l)
		}
	}
	if d := CheckWellformedness(v); len(d) != 0 {
		t.Errorf("expected voice to be well formed, have %v", d)
	}
}

func TestFormatVoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.notation")
	defer teardown()
	//
	a := NewNote(MustParsePitch("e''"), D(1, 8))
	a.Attach(Treble)
	a.Attach(BeamStart{})
	a.Attach(Accent)
	a.Tied = true
	b := NewNote(MustParsePitch("e''"), D(1, 8))
	b.Attach(BeamStop{})
	r := NewRest(D(3, 8))
	m := NewMultiMeasureRest(D(3, 8))
	v := makeVoice(a, b, r, m)
	expected := strings.Join([]string{
		`\context Voice = "TestVoice"`,
		`{`,
		`    \clef "treble"`,
		`    e''8`,
		`    [`,
		`    -\accent`,
		`    ~`,
		`    e''8`,
		`    ]`,
		`    r4.`,
		`    R1 * 3/8`,
		`}`,
		``,
	}, "\n")
	if out := Lilypond(v); out != expected {
		t.Errorf("unexpected LilyPond output:\n%s\nexpected:\n%s", out, expected)
	}
}

func TestWellformednessDefects(t *testing.T) {
	a := NewNote(MiddleC, D(1, 4))
	b := NewNote(MustParsePitch("d'"), D(1, 4))
	a.Tied = true
	a.Attach(BeamStart{})
	a.Attach(Dynamic{Name: "p"})
	a.Attach(Dynamic{Name: "f"})
	v := makeVoice(a, b)
	defects := CheckWellformedness(v)
	checks := map[string]bool{}
	for _, d := range defects {
		checks[d.Check] = true
	}
	for _, c := range []string{"ties", "beams", "indicators"} {
		if !checks[c] {
			t.Errorf("expected a %q defect, have %v", c, defects)
		}
	}
}

func TestContainerWrapAndReplace(t *testing.T) {
	v := makeVoice(NewSkip(D(1, 2)), NewSkip(D(3, 8)), NewSkip(D(1, 2)))
	volta := &Container{Prefix: `\repeat volta 2`}
	v.Wrap(1, 3, volta)
	if v.Len() != 2 || volta.Len() != 2 {
		t.Fatalf("expected wrap to leave 2 children in voice and volta, have %d and %d", v.Len(), volta.Len())
	}
	if !v.Duration().Equal(D(11, 8)) {
		t.Errorf("expected voice duration to be unchanged by wrap, is %s", v.Duration())
	}
	if len(v.Leaves()) != 3 {
		t.Errorf("expected 3 leaves after wrap")
	}
	if v.Leaves()[2].Voice() != v {
		t.Errorf("expected wrapped leaves to still belong to the voice")
	}
}

func TestMetronomeMark(t *testing.T) {
	mm, err := ParseMetronomeMark("slow", "8.=72")
	if err != nil {
		t.Fatal(err)
	}
	if mm.Lilypond() != `\tempo 8.=72` {
		t.Errorf("unexpected tempo %q", mm.Lilypond())
	}
	q, _ := ParseMetronomeMark("q", "4=60")
	if s := q.Seconds(D(3, 4)); s != 3 {
		t.Errorf("expected 3/4 at 4=60 to last 3 seconds, is %v", s)
	}
	if ClockTime(75) != "1'15''" {
		t.Errorf("unexpected clock time %q", ClockTime(75))
	}
}
