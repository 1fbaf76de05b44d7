package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-blaster/model"
)

type failingDriver struct{ writes int }

func (d *failingDriver) Write([]byte) error { d.writes++; return errors.New("bus gone") }
func (d *failingDriver) Close() error       { return nil }

func TestStripShowWritesFrame(t *testing.T) {
	drv := NewSim()
	s := NewStrip(3, drv, Options{})
	s.Pixels()[1] = model.Red
	s.Show()

	assert.Equal(t, []byte{0, 0, 0, 255, 0, 0, 0, 0, 0}, drv.Last())
	assert.Equal(t, uint64(1), s.Frames())
	assert.NoError(t, s.Err())
}

func TestStripBrightnessLeavesBufferAlone(t *testing.T) {
	drv := NewSim()
	s := NewStrip(1, drv, Options{Brightness: 127})
	s.Pixels().Fill(model.White)
	s.Show()

	assert.Equal(t, []byte{127, 127, 127}, drv.Last())
	assert.Equal(t, model.White, s.Pixels()[0])
}

func TestStripDegenerateIsNoop(t *testing.T) {
	empty := NewStrip(0, NewSim(), Options{})
	assert.False(t, empty.Ready())
	empty.Show()
	empty.Clear()
	assert.Equal(t, uint64(0), empty.Frames())

	headless := NewStrip(4, nil, Options{})
	headless.Pixels().Fill(model.Blue)
	headless.Show()
	assert.True(t, headless.Pixels().IsSolid(model.Blue))
	assert.NoError(t, headless.Close())
}

func TestStripWriteErrorRetained(t *testing.T) {
	drv := &failingDriver{}
	s := NewStrip(2, drv, Options{})
	s.Show()
	s.Show()
	assert.Equal(t, 2, drv.writes)
	assert.EqualError(t, s.Err(), "bus gone")
	assert.Equal(t, uint64(0), s.Frames())
}

func TestStripCloseBlanks(t *testing.T) {
	drv := NewSim()
	s := NewStrip(2, drv, Options{})
	s.Pixels().Fill(model.Green)
	require.NoError(t, s.Close())
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, drv.Last())
	assert.Error(t, drv.Write([]byte{0, 0, 0}))
	assert.NoError(t, s.Close())
}

func TestTee(t *testing.T) {
	a, b := NewSim(), NewSim()
	f := &failingDriver{}
	tee := Tee{a, nil, f, b}
	err := tee.Write([]byte{1, 2, 3})
	assert.EqualError(t, err, "bus gone")
	assert.Equal(t, []byte{1, 2, 3}, a.Last())
	assert.Equal(t, []byte{1, 2, 3}, b.Last())
	assert.NoError(t, tee.Close())
}

func TestSimHistoryAndSummary(t *testing.T) {
	var out bytes.Buffer
	d := &Sim{Keep: 2, Out: &out}
	require.NoError(t, d.Write([]byte{255, 0, 0, 10, 0, 0, 0, 0, 0}))
	require.NoError(t, d.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0}))
	require.NoError(t, d.Write([]byte{0, 0, 200, 0, 0, 0, 0, 0, 0}))

	assert.Len(t, d.History(), 2)
	assert.Equal(t, 3, d.Count)
	assert.Contains(t, out.String(), "[frame 0001] #+.")
	assert.Contains(t, out.String(), "[frame 0003] #..")
}
