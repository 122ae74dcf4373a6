package cpu

import (
	"time"

	"github.com/san-kum/ipcsim/internal/backend"
	"github.com/san-kum/ipcsim/internal/storage"
)

const KindDump backend.Kind = "dump"

// DumpSystem saves frames to a store and loads them back.
type DumpSystem struct {
	backend.SystemBase

	store    storage.Store
	vertices *GlobalVertexManager
}

func NewDumpSystem(store storage.Store) *DumpSystem {
	return &DumpSystem{store: store}
}

func (d *DumpSystem) Kind() backend.Kind { return KindDump }
func (d *DumpSystem) Name() string       { return string(KindDump) }

func (d *DumpSystem) Build(info *backend.BuildInfo) error {
	if !info.Scene.Info().Dump.Enable {
		return backend.Shutdown("dump is disabled")
	}
	if d.store == nil {
		return backend.Shutdown("no frame store")
	}
	vm, err := backend.Require[*GlobalVertexManager](info, KindGlobalVertexManager)
	if err != nil {
		return err
	}
	d.vertices = vm
	d.SetEngineAware(true)
	return nil
}

func (d *DumpSystem) Dump(frame uint64, observed map[string]float64) error {
	return d.store.Save(&storage.FrameDump{
		Frame:     frame,
		Timestamp: time.Now(),
		Positions: d.vertices.Positions(),
		Metrics:   observed,
	})
}

// Recover loads frame and restores its positions.
func (d *DumpSystem) Recover(frame uint64) error {
	dump, err := d.store.Load(frame)
	if err != nil {
		return err
	}
	return d.vertices.Restore(dump.Positions)
}
