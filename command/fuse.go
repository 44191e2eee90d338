package command

import (
	"github.com/npillmayer/scorekit/notation"
)

// FuseCommand replaces every logical tie of more than one leaf by a single
// leaf, if the total duration of the tie is assignable. Indicators of the
// removed leaves move to the remaining one. Fusing changes the leaves of
// the score, so the command marks the state as mutated.
type FuseCommand struct {
	Selector notation.Selector
}

func (c *FuseCommand) String() string { return "FuseCommand()" }

// Apply implements Command.
func (c *FuseCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	fused := 0
	for _, lt := range sel.LogicalTies() {
		if len(lt.Leaves) < 2 {
			continue
		}
		total := lt.Duration()
		if !total.IsAssignable() {
			tracer().Debugf("FuseCommand: cannot fuse tie of duration %s", total)
			continue
		}
		head, tail := lt.Head(), lt.Tail()
		head.Written = total
		head.Multiplier = notation.Duration{}
		head.Tied = tail.Tied
		for _, l := range lt.Leaves[1:] {
			for _, ind := range l.Indicators() {
				head.Attach(ind)
			}
			if p := l.Parent(); p != nil {
				i := p.Index(l)
				p.Replace(i, i+1)
			}
		}
		fused++
	}
	if fused > 0 {
		state.MarkMutated()
		tracer().Debugf("FuseCommand: fused %d logical ties", fused)
	}
	return nil
}
