package metastore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scorekit/command"
	"github.com/npillmayer/scorekit/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() segment.Metadata {
	return segment.Metadata{
		Segment:            "A",
		FirstMeasureNumber: 1,
		MeasureCount:       4,
		EndClefs:           map[string]string{"ViolinMusicStaff": "treble", "CelloMusicStaff": "bass"},
		EndInstruments:     map[string]string{"ViolinMusicStaff": "violin", "CelloMusicStaff": "cello"},
		EndMetronomeMark:   "slow",
		EndTimeSignature:   "3/8",
		Persist:            map[string]command.Persisted{"line": {PitchesConsumed: 7}},
	}
}

func exerciseStore(t *testing.T, s Store) {
	_, err := s.Load("A")
	assert.True(t, errors.Is(err, ErrNotFound), "expected not found, have %v", err)
	md := sampleMetadata()
	require.NoError(t, s.Save("A", md))
	loaded, err := s.Load("A")
	require.NoError(t, err)
	assert.Equal(t, md, loaded)
	md.MeasureCount = 6
	require.NoError(t, s.Save("A", md))
	require.NoError(t, s.Save("B", sampleMetadata()))
	loaded, err = s.Load("A")
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.MeasureCount)
	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Error(t, s.Save("../x", md))
	assert.Error(t, s.Save("", md))
}

func TestFileStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.metastore")
	defer teardown()
	//
	s, err := NewFileStore(filepath.Join(t.TempDir(), "meta"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLStore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scorekit.metastore")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "segments.db")
	s, err := OpenSQLStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	builds, err := s.Builds("A")
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.NotEqual(t, builds[0].ID, builds[1].ID)
	assert.Equal(t, 6, builds[1].MeasureCount)
	require.NoError(t, s.Close())
	// migrations are applied once only
	s, err = OpenSQLStore(path)
	require.NoError(t, err)
	defer s.Close()
	md, err := s.Load("B")
	require.NoError(t, err)
	assert.Equal(t, "slow", md.EndMetronomeMark)
}

func TestOpenSQLStoreRequiresPath(t *testing.T) {
	_, err := OpenSQLStore(" ")
	assert.Error(t, err)
}

func TestCanonicalEncoding(t *testing.T) {
	a, err := EncodeMetadata(sampleMetadata())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := EncodeMetadata(sampleMetadata())
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), "expected map order not to change the encoding")
	}
	md, err := DecodeMetadata(a)
	require.NoError(t, err)
	assert.Equal(t, sampleMetadata(), md)
}
