package command

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/markup"
	"github.com/npillmayer/scorekit/notation"
)

// HairpinCommand spans a hairpin over the selection, from its first to its
// last pitched leaf. Descriptors are written like "p < f", "o< mf",
// "f >o" or "p <": an optional start dynamic, the hairpin shape and an
// optional stop dynamic.
type HairpinCommand struct {
	Descriptor string
	Start      *notation.Dynamic
	Shape      string
	Stop       *notation.Dynamic
	Selector   notation.Selector
}

// NewHairpinCommand parses a hairpin descriptor.
func NewHairpinCommand(descriptor string) (*HairpinCommand, error) {
	c := &HairpinCommand{Descriptor: descriptor}
	fields := strings.Fields(descriptor)
	shapeAt := -1
	for i, f := range fields {
		switch f {
		case "<", ">", "o<", ">o":
			if shapeAt >= 0 {
				return nil, argError("HairpinCommand", "more than one hairpin in %q", descriptor)
			}
			shapeAt = i
		}
	}
	if shapeAt < 0 {
		return nil, argError("HairpinCommand", "no hairpin shape in %q", descriptor)
	}
	c.Shape = fields[shapeAt]
	if shapeAt > 1 || len(fields)-shapeAt > 2 {
		return nil, argError("HairpinCommand", "malformed hairpin %q", descriptor)
	}
	if shapeAt == 1 {
		d, err := markup.ParseDynamic(fields[0])
		if err != nil {
			return nil, argError("HairpinCommand", "%v", err)
		}
		c.Start = &d
	}
	if shapeAt+1 < len(fields) {
		d, err := markup.ParseDynamic(fields[shapeAt+1])
		if err != nil {
			return nil, argError("HairpinCommand", "%v", err)
		}
		c.Stop = &d
	}
	return c, nil
}

func (c *HairpinCommand) String() string {
	return fmt.Sprintf("HairpinCommand(%q)", c.Descriptor)
}

// Apply implements Command.
func (c *HairpinCommand) Apply(state *State, sel notation.Selection) error {
	sel, err := narrow(c, c.Selector, sel)
	if err != nil {
		return err
	}
	leaves := sel.Pitched().Leaves()
	if len(leaves) < 2 {
		return CountError{
			Command: c.String(),
			Values:  2,
			Ties:    len(leaves),
			Issue:   "hairpin needs at least two pitched leaves",
		}
	}
	first, last := leaves[0], leaves[len(leaves)-1]
	if c.Start != nil {
		attachExclusive(first, *c.Start)
	}
	first.Attach(notation.HairpinStart{Shape: c.Shape})
	if c.Stop != nil {
		attachExclusive(last, *c.Stop)
	} else {
		last.Attach(notation.HairpinStop{})
	}
	return nil
}
