package segment

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/scorekit/notation"
)

// LilypondVersion is written into the header of every segment file.
const LilypondVersion = "2.24.0"

// Result is the outcome of a segment run.
type Result struct {
	Score      *notation.Container
	Metadata   Metadata
	Violations []Violation // violations which did not fail the segment
	Stages     []StageInfo
	Seconds    float64 // clock time of the segment, zero without metronome marks
}

// Lilypond returns a complete LilyPond file for the segment.
func (res *Result) Lilypond() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%% segment %s\n", res.Metadata.Segment)
	fmt.Fprintf(&sb, "\\version \"%s\"\n", LilypondVersion)
	sb.WriteString("\\language \"english\"\n\n")
	sb.WriteString("\\score {\n")
	if err := notation.WriteLilypond(&sb, res.Score, 1); err != nil {
		tracer().Errorf("formatting segment %s: %v", res.Metadata.Segment, err)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Voice returns the LilyPond source of a single voice, or "" if there is
// no such voice.
func (res *Result) Voice(name string) string {
	v := res.Score.FindContext(name)
	if v == nil {
		return ""
	}
	return notation.Lilypond(v)
}

// WriteFile writes the LilyPond file of the segment to path.
func (res *Result) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(res.Lilypond()), 0o644); err != nil {
		return fmt.Errorf("segment %s: %w", res.Metadata.Segment, err)
	}
	tracer().Infof("segment %s written to %s", res.Metadata.Segment, path)
	return nil
}
