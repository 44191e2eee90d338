package segdef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

// ParseSelector parses a chain of selectors separated by white space, e.g.
// "pitched leaf:0". Selectors are
//
//	leaves       all leaves
//	pitched      pitched leaves
//	rests        rests
//	plts         leaves of pitched logical ties
//	plt:i        the i-th pitched logical tie
//	leaf:i       the i-th leaf
//	leaves:i:j   leaves i…j-1
//
// Negative indices count from the end. An empty string gives a nil
// selector.
func ParseSelector(spec string) (notation.Selector, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, nil
	}
	selectors := make([]notation.Selector, len(fields))
	for i, f := range fields {
		sel, err := parseSelector(f)
		if err != nil {
			return nil, err
		}
		selectors[i] = sel
	}
	if len(selectors) == 1 {
		return selectors[0], nil
	}
	return notation.Chain(selectors...), nil
}

func parseSelector(s string) (notation.Selector, error) {
	name, rest, _ := strings.Cut(s, ":")
	var args []int
	if rest != "" {
		for _, a := range strings.Split(rest, ":") {
			n, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", s, err)
			}
			args = append(args, n)
		}
	}
	switch {
	case name == "leaves" && len(args) == 0:
		return notation.AllLeaves(), nil
	case name == "leaves" && len(args) == 2:
		return notation.LeafRange(args[0], args[1]), nil
	case name == "pitched" && len(args) == 0:
		return notation.PitchedLeaves(), nil
	case name == "rests" && len(args) == 0:
		return notation.RestLeaves(), nil
	case name == "plts" && len(args) == 0:
		return notation.PLTs(), nil
	case name == "plt" && len(args) == 1:
		return notation.PLT(args[0]), nil
	case name == "leaf" && len(args) == 1:
		return notation.LeafAt(args[0]), nil
	}
	return nil, fmt.Errorf("invalid selector %q", s)
}
