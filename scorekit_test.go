package scorekit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const first = `
[segment]
name = "A"
template = "string-trio"
time_signatures = ["4/4", "4/4"]

[metronome_marks]
slow = "4=60"

[[metronome_mark_map]]
measure = 1
mark = "slow"

[[command]]
type = "rhythm"
voice = "CelloMusicVoice"
value = "1/2"

[[command]]
type = "pitches"
voice = "CelloMusicVoice"
pitches = "-24 -20 -17 -12"
persist = "bass"

[[command]]
type = "clef"
voice = "CelloMusicVoice"
selector = "leaf:-1"
clef = "tenor"
`

const second = `
[segment]
name = "B"
template = "string-trio"
time_signatures = ["3/4"]
previous = "A"

[metronome_marks]
slow = "4=60"
`

// --- Test Suite Preparation ------------------------------------------------

type ChainTestEnviron struct {
	suite.Suite
	a, b string
}

// listen for 'go test' command --> run test methods
func TestChainedSegments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit")
	defer teardown()
	suite.Run(t, new(ChainTestEnviron))
}

// run once, before test suite methods
func (env *ChainTestEnviron) SetupSuite() {
	dir := env.T().TempDir()
	env.a, env.b = filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.toml")
	env.Require().NoError(os.WriteFile(env.a, []byte(first), 0o644))
	env.Require().NoError(os.WriteFile(env.b, []byte(second), 0o644))
}

// --- Tests -----------------------------------------------------------------

func (env *ChainTestEnviron) TestChain() {
	results, err := Chain(env.a, env.b)
	env.Require().NoError(err)
	env.Require().Len(results, 2)
	md := results[1].Metadata
	env.Equal(3, md.FirstMeasureNumber)
	env.Equal("tenor", md.EndClefs["CelloMusicStaff"])
	env.Equal("slow", md.EndMetronomeMark)
	env.Equal(4, md.Persist["bass"].PitchesConsumed)
	cello := results[1].Voice("CelloMusicVoice")
	env.True(strings.Contains(cello, `\clef "tenor"`), "expected inherited clef in\n%s", cello)
	env.InDelta(3.0, results[1].Seconds, 1e-9)
}

func (env *ChainTestEnviron) TestChainStopsAtFirstFailure() {
	results, err := Chain(env.a, filepath.Join(env.T().TempDir(), "missing.toml"), env.b)
	env.Error(err)
	env.Len(results, 1)
}

func (env *ChainTestEnviron) TestBuildFileWithoutPrevious() {
	res, err := BuildFile(env.b, nil)
	env.Require().NoError(err)
	env.Equal(1, res.Metadata.FirstMeasureNumber)
	env.Equal("3/4", res.Metadata.EndTimeSignature)
}

func TestBuildReportsDefinitionErrors(t *testing.T) {
	_, err := Build("[segment]\nname = \"X\"\n", nil)
	assert.Error(t, err)
	_, err = BuildFile(filepath.Join(t.TempDir(), "missing.toml"), nil)
	assert.Error(t, err)
}
