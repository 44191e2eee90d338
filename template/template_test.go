package template

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleStaffSkeleton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.template")
	defer teardown()
	//
	score := SingleStaff().Build()
	require.Equal(t, "Score", score.Name)
	assert.NotNil(t, score.FindContext(GlobalSkipsName))
	assert.NotNil(t, score.FindContext(GlobalRestsName))
	v := score.FindContext("MusicVoice")
	require.NotNil(t, v)
	assert.Equal(t, "Voice", v.Context)
	assert.Equal(t, "Staff", v.Parent().Context)
	assert.True(t, score.Duration().IsZero())
}

func TestStringTrioVoices(t *testing.T) {
	trio, err := Lookup("string-trio")
	require.NoError(t, err)
	assert.Equal(t, []string{"ViolinMusicVoice", "ViolaMusicVoice", "CelloMusicVoice"}, Voices(trio))
	_, staff, ok := FindVoice(trio, "ViolaMusicVoice")
	require.True(t, ok)
	assert.Equal(t, notation.Alto, staff.Clef)
	assert.Equal(t, "viola", staff.Instrument)
	score := trio.Build()
	assert.Len(t, score.Contexts("Staff"), 3)
	assert.Len(t, score.Contexts("StaffGroup"), 1)
}

func TestTwoVoiceStaffFillsSkips(t *testing.T) {
	v, _, ok := FindVoice(TwoVoiceStaff(), "MusicVoiceTwo")
	require.True(t, ok)
	assert.True(t, v.FillSkips)
	staff := TwoVoiceStaff().Build().FindContext("MusicStaff")
	require.NotNil(t, staff)
	assert.True(t, staff.Simultaneous)
	_, err := Lookup("orchestra")
	assert.Error(t, err)
}
