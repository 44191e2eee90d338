package report

import (
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/notation"
	"github.com/npillmayer/scorekit/rhythm"
	"github.com/npillmayer/scorekit/segment"
	"github.com/npillmayer/scorekit/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterNotes(t *testing.T) *segment.Result {
	ts, err := notation.TimeSignatures("2/4", "2/4")
	require.NoError(t, err)
	m, err := segment.NewMaker(segment.Config{
		Name:             "R",
		TimeSignatures:   ts,
		MeasuresPerStage: []int{1, 1},
		Template:         template.SingleStaff(),
	})
	require.NoError(t, err)
	maker, err := rhythm.Notes(notation.D(1, 4))
	require.NoError(t, err)
	rc, err := rhythm.New(maker, false)
	require.NoError(t, err)
	pc, err := command.NewPitchCommand("0", true)
	require.NoError(t, err)
	require.NoError(t, m.Append(segment.Stages("MusicVoice"), rc, pc))
	res, err := m.Run()
	require.NoError(t, err)
	return res
}

func TestRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.segment")
	defer teardown()
	//
	res := quarterNotes(t)
	stages := StageRows(res)
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"2", "2", "1/2", "1/2"}, stages[2])
	voices := VoiceRows(res.Score)
	var music []string
	for _, row := range voices[1:] {
		if row[0] == "MusicVoice" {
			music = row
		}
	}
	require.NotNil(t, music)
	assert.Equal(t, []string{"MusicVoice", "MusicStaff", "4", "4", "1/1"}, music)
	meta := MetadataRows(res.Metadata)
	assert.Contains(t, meta, []string{"next measure", "3"})
	assert.Contains(t, meta, []string{"clef MusicStaff", "treble"})
	assert.Len(t, ViolationRows(res.Violations), 1)
}

func TestTimeline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.segment")
	defer teardown()
	//
	res := quarterNotes(t)
	img, err := Timeline(res.Score, 200, 60)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(30, 30))
	assert.Equal(t, lightGray, img.RGBAAt(100, 9))
	assert.Equal(t, white, img.RGBAAt(2, 2))
	_, err = Timeline(res.Score, 10, 10)
	assert.Error(t, err)
}
