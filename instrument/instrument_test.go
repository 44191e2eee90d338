package instrument

import (
	"testing"

	"github.com/npillmayer/scorekit/notation"
	"github.com/stretchr/testify/assert"
)

func TestLibrary(t *testing.T) {
	vn, ok := Lookup("Violin")
	if !ok {
		t.Fatal("expected violin in library")
	}
	assert.Equal(t, "Violin", vn.Name)
	assert.True(t, vn.InRange(notation.MustParsePitch("g")))
	assert.False(t, vn.InRange(notation.MustParsePitch("f")))
	assert.Equal(t, notation.Treble, vn.DefaultClef())

	vc, _ := Lookup("cello")
	assert.True(t, vc.AllowsClef(notation.Tenor))
	assert.False(t, vc.AllowsClef(notation.Alto))

	cl, _ := Lookup("clarinet")
	assert.Equal(t, 2, cl.Transposition)
	assert.Equal(t, "Clarinet in B-flat", cl.Change().Name)
}

func TestNewDerivesName(t *testing.T) {
	i, err := New("bass flute", "", "B.Fl.", "c c'''")
	assert.NoError(t, err)
	assert.Equal(t, "Bass Flute", i.Name)
	_, err = New("nothing", "", "", "c")
	assert.Error(t, err)
}
