package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDump(frame uint64) *FrameDump {
	return &FrameDump{
		Frame:     frame,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Positions: []geometry.Vector3{{0, 0, 0}, {1, 0.5, -2}},
		Metrics:   map[string]float64{"energy": 1.5},
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "dumps", "frames.db"))
	require.NoError(t, err)
	mem, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	out := map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite":        sq,
		"sqlite memory": mem,
	}
	t.Cleanup(func() {
		for _, s := range out {
			_ = s.Close()
		}
	})
	return out
}

func TestStore_SaveLoad(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Save(sampleDump(3)))
			require.NoError(t, st.Save(sampleDump(1)))

			got, err := st.Load(3)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), got.Frame)
			assert.Equal(t, sampleDump(3).Positions, got.Positions)
			assert.Equal(t, 1.5, got.Metrics["energy"])
			assert.True(t, got.Timestamp.Equal(sampleDump(3).Timestamp))

			frames, err := st.Frames()
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 3}, frames)

			_, err = st.Load(2)
			assert.ErrorIs(t, err, ErrFrameNotFound)
		})
	}
}

func TestStore_Replace(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Save(sampleDump(5)))
			d := sampleDump(5)
			d.Positions = []geometry.Vector3{{9, 9, 9}}
			require.NoError(t, st.Save(d))

			got, err := st.Load(5)
			require.NoError(t, err)
			assert.Equal(t, []geometry.Vector3{{9, 9, 9}}, got.Positions)

			frames, err := st.Frames()
			require.NoError(t, err)
			assert.Len(t, frames, 1)
		})
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	st := NewMemoryStore()
	d := sampleDump(0)
	require.NoError(t, st.Save(d))

	d.Positions[0] = geometry.Vector3{7, 7, 7}
	d.Metrics["energy"] = 0

	got, err := st.Load(0)
	require.NoError(t, err)
	assert.Equal(t, geometry.Vector3{0, 0, 0}, got.Positions[0])
	assert.Equal(t, 1.5, got.Metrics["energy"])
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	st, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, st.Save(sampleDump(4)))
	require.NoError(t, st.Close())

	again, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, path, again.Path())

	got, err := again.Load(4)
	require.NoError(t, err)
	assert.Len(t, got.Positions, 2)
}

func TestOpen(t *testing.T) {
	st, err := Open("")
	require.NoError(t, err)
	_, ok := st.(*MemoryStore)
	assert.True(t, ok)

	st, err = Open(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer st.Close()
	_, ok = st.(*SQLiteStore)
	assert.True(t, ok)
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleDump(0)))
	assert.Equal(t, "vertex,x,y,z\n0,0.000000,0.000000,0.000000\n1,1.000000,0.500000,-2.000000\n", buf.String())

	path := filepath.Join(t.TempDir(), "frame.json")
	require.NoError(t, ExportJSON(path, sampleDump(2)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got FrameDump
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, uint64(2), got.Frame)
}
