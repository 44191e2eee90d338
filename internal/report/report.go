/*
Package report formats segment results for the command line tools.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package report

import (
	"fmt"
	"sort"

	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/segment"
	"github.com/pterm/pterm"
)

// StageRows returns a table of the stages of a segment, header first.
func StageRows(res *segment.Result) [][]string {
	data := [][]string{
		{"Stage", "Measures", "Start", "Duration"},
	}
	for _, st := range res.Stages {
		measures := fmt.Sprintf("%d", st.FirstMeasure)
		if st.LastMeasure != st.FirstMeasure {
			measures = fmt.Sprintf("%d–%d", st.FirstMeasure, st.LastMeasure)
		}
		data = append(data, []string{
			fmt.Sprintf("%d", st.Number),
			measures,
			st.Start.String(),
			st.Duration.String(),
		})
	}
	return data
}

// ViolationRows returns a table of the check violations of a segment,
// header first.
func ViolationRows(violations []segment.Violation) [][]string {
	data := [][]string{
		{"Check", "Severity", "Voice", "Leaf", "Issue"},
	}
	for _, v := range violations {
		data = append(data, []string{
			v.Check,
			v.Severity.String(),
			v.Voice,
			fmt.Sprintf("%d: %s", v.Index, v.Leaf),
			v.Issue,
		})
	}
	return data
}

// VoiceRows returns a table of the voices of a score, header first.
func VoiceRows(score *notation.Container) [][]string {
	data := [][]string{
		{"Voice", "Staff", "Leaves", "Pitched", "Duration"},
	}
	for _, v := range score.Contexts("Voice") {
		staff := ""
		for p := v.Parent(); p != nil; p = p.Parent() {
			if p.Context == "Staff" {
				staff = p.Name
				break
			}
		}
		leaves := v.Leaves()
		data = append(data, []string{
			v.Name,
			staff,
			fmt.Sprintf("%d", len(leaves)),
			fmt.Sprintf("%d", len(notation.Select(leaves).Pitched().Leaves())),
			v.Duration().String(),
		})
	}
	return data
}

// MetadataRows returns a table of segment metadata, header first.
func MetadataRows(md segment.Metadata) [][]string {
	data := [][]string{
		{"Key", "Value"},
		{"segment", md.Segment},
		{"first measure", fmt.Sprintf("%d", md.FirstMeasureNumber)},
		{"measures", fmt.Sprintf("%d", md.MeasureCount)},
		{"next measure", fmt.Sprintf("%d", md.NextMeasureNumber())},
		{"time signature", md.EndTimeSignature},
		{"metronome mark", md.EndMetronomeMark},
	}
	for _, staff := range sortedKeys(md.EndClefs) {
		data = append(data, []string{"clef " + staff, md.EndClefs[staff]})
	}
	for _, staff := range sortedKeys(md.EndInstruments) {
		data = append(data, []string{"instrument " + staff, md.EndInstruments[staff]})
	}
	for _, name := range sortedKeys(md.Persist) {
		data = append(data, []string{"persist " + name, fmt.Sprintf("%d pitches", md.Persist[name].PitchesConsumed)})
	}
	return data
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Print renders a table with a header row.
func Print(data [][]string) {
	if len(data) <= 1 {
		pterm.Info.Println("nothing to show")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
