package segment

import (
	"fmt"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

// ScopeError reports a scope which does not select anything usable.
type ScopeError struct {
	Scope Scope
	Issue string
}

// Error implements the error interface.
func (e ScopeError) Error() string {
	return fmt.Sprintf("scope %s: %s", e.Scope, e.Issue)
}

// OverlapError reports rhythm commands of a voice whose music overlaps.
type OverlapError struct {
	Voice        string
	Command      string
	Start        notation.Duration // start offset of the offending contribution
	PreviousStop notation.Duration // stop offset of the contribution before
}

// Error implements the error interface.
func (e OverlapError) Error() string {
	return fmt.Sprintf("voice %s: %s starts at %s before previous rhythm stops at %s",
		e.Voice, e.Command, e.Start, e.PreviousStop)
}

// CommandError wraps the failure of a command together with the command's
// representation and scope.
type CommandError struct {
	Command string
	Scope   string
	Err     error
}

// Error implements the error interface.
func (e CommandError) Error() string {
	return fmt.Sprintf("%s @ %s: %v", e.Command, e.Scope, e.Err)
}

// Unwrap returns the underlying error.
func (e CommandError) Unwrap() error { return e.Err }

// Severity is the severity level of a check violation.
type Severity int

const (
	// SeverityCritical violations fail the segment.
	SeverityCritical Severity = iota
	// SeverityMajor violations are flagged in the score by color.
	SeverityMajor
	// SeverityMinor violations are reported only.
	SeverityMinor
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// Violation is a problem found by the checks of a segment.
type Violation struct {
	Check    string   // e.g. "range", "octaves", "ties"
	Voice    string   // voice of the leaf
	Index    int      // index of the leaf within its voice
	Leaf     string   // LilyPond body of the leaf
	Issue    string   // human-readable description
	Severity Severity // severity level
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s leaf %d (%s): %s", v.Severity, v.Check, v.Voice, v.Index, v.Leaf, v.Issue)
}

// CheckError reports critical violations.
type CheckError struct {
	Segment    string
	Violations []Violation
}

// Error implements the error interface.
func (e CheckError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "segment %s: %d check violations", e.Segment, len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n\t")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// violationCollector accumulates violations during the checks.
type violationCollector struct {
	violations []Violation
}

func (vc *violationCollector) add(check, voice string, index int, l *notation.Leaf, sev Severity, format string, args ...any) {
	body := ""
	if l != nil {
		body = l.Body()
	}
	vc.violations = append(vc.violations, Violation{
		Check:    check,
		Voice:    voice,
		Index:    index,
		Leaf:     body,
		Issue:    fmt.Sprintf(format, args...),
		Severity: sev,
	})
}

// critical returns all violations with critical severity.
func (vc *violationCollector) critical() []Violation {
	var crit []Violation
	for _, v := range vc.violations {
		if v.Severity == SeverityCritical {
			crit = append(crit, v)
		}
	}
	return crit
}
