package command

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

// BowContactPointCommand attaches bow contact points to logical ties and
// marks local extrema of the contact point sequence with bowings: a strict
// local maximum gets an up-bow, a strict local minimum a down-bow.
//
// Contact points are taken cyclically from Points. A rest following a note
// reuses the note's contact point instead of consuming a new one; further
// rests are skipped. The last pitched logical tie is never marked, and the
// first one is compared against its successor only.
type BowContactPointCommand struct {
	Points   []notation.BowContactPoint
	Selector notation.Selector
}

// NewBowContactPointCommand creates a command from fractions like
// "1/5 3/5 2/5".
func NewBowContactPointCommand(points string) (*BowContactPointCommand, error) {
	var bcps []notation.BowContactPoint
	for _, f := range strings.Fields(points) {
		var n, d int
		if _, err := fmt.Sscanf(f, "%d/%d", &n, &d); err != nil {
			return nil, argError("BowContactPointCommand", "invalid contact point %q", f)
		}
		if d <= 0 || n < 0 || n > d {
			return nil, argError("BowContactPointCommand", "contact point %q out of [0, 1]", f)
		}
		bcps = append(bcps, notation.BowContactPoint{Num: n, Den: d})
	}
	if len(bcps) == 0 {
		return nil, argError("BowContactPointCommand", "no contact points")
	}
	return &BowContactPointCommand{Points: bcps}, nil
}

func (c *BowContactPointCommand) String() string {
	parts := make([]string, len(c.Points))
	for i, p := range c.Points {
		parts[i] = fmt.Sprintf("%d/%d", p.Num, p.Den)
	}
	return fmt.Sprintf("BowContactPointCommand(%s)", strings.Join(parts, " "))
}

type contactPoint struct {
	tie   *notation.LogicalTie
	point notation.BowContactPoint
	rest  bool
}

// contactPoints assigns contact points to a sequence of logical ties,
// without attaching anything.
func (c *BowContactPointCommand) contactPoints(ties []*notation.LogicalTie) []contactPoint {
	var seq []contactPoint
	next := 0
	for _, lt := range ties {
		if !lt.IsPitched() {
			if len(seq) > 0 {
				last := seq[len(seq)-1]
				if last.rest {
					continue
				}
				seq = append(seq, contactPoint{tie: lt, point: last.point, rest: true})
				continue
			}
			seq = append(seq, contactPoint{tie: lt, point: c.Points[next%len(c.Points)], rest: true})
			next++
			continue
		}
		seq = append(seq, contactPoint{tie: lt, point: c.Points[next%len(c.Points)]})
		next++
	}
	return seq
}

// Apply implements Command.
func (c *BowContactPointCommand) Apply(state *State, sel notation.Selection) error {
	if len(c.Points) == 0 {
		return argError("BowContactPointCommand", "no contact points")
	}
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	seq := c.contactPoints(sel.LogicalTies())
	for i, cp := range seq {
		if cp.rest {
			continue
		}
		head := cp.tie.Head()
		attachExclusive(head, cp.point)
		if bowing, ok := bowingAt(seq, i); ok {
			head.Detach(isBowing)
			head.Attach(bowing)
		}
	}
	return nil
}

// bowingAt compares contact point i with its neighbours. The successor is
// the next logical tie which consumed a contact point; rests carrying the
// point of the note before them only count as predecessors.
func bowingAt(seq []contactPoint, i int) (notation.Articulation, bool) {
	j := i + 1
	for j < len(seq) && seq[j].rest {
		j++
	}
	if j == len(seq) {
		return notation.Articulation{}, false
	}
	cur := seq[i].point.Ratio()
	next := seq[j].point.Ratio()
	if i == 0 {
		switch cur.Cmp(next) {
		case 1:
			return notation.UpBow, true
		case -1:
			return notation.DownBow, true
		}
		return notation.Articulation{}, false
	}
	prev := seq[i-1].point.Ratio()
	switch {
	case cur.Cmp(prev) > 0 && cur.Cmp(next) > 0:
		return notation.UpBow, true
	case cur.Cmp(prev) < 0 && cur.Cmp(next) < 0:
		return notation.DownBow, true
	}
	return notation.Articulation{}, false
}

func isBowing(ind notation.Indicator) bool {
	a, ok := ind.(notation.Articulation)
	return ok && (a == notation.UpBow || a == notation.DownBow)
}
