package domain

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sharivan/XSharp-sub001/pkg/utils"
	"github.com/sirupsen/logrus"
)

// World is the environment shared by every entity of one simulation: the
// registry, the spatial index and the deterministic RNG.
type World struct {
	Registry *Registry
	Spatial  SpatialIndex
	Rng      *utils.Random

	tick      int64
	observers []TouchObserver
}

// NewWorld creates an empty world with room for capacity entities.
func NewWorld(spatial SpatialIndex, capacity int, seed uint16) *World {
	return &World{
		Registry: NewRegistry(capacity),
		Spatial:  spatial,
		Rng:      utils.NewRandom(seed),
	}
}

func (w *World) Tick() int64 { return w.tick }
func (w *World) SetTick(tick int64) { w.tick = tick }

// AdvanceTick is called by the driver once the tick was committed.
func (w *World) AdvanceTick() int64 {
	w.tick++
	return w.tick
}

// Observe registers fn for every touch notification fired from now on.
func (w *World) Observe(fn TouchObserver) {
	w.observers = append(w.observers, fn)
}

func (w *World) notify(self, other *Entity, phase TouchPhase) {
	if len(w.observers) == 0 {
		return
	}
	ev := TouchEvent{Tick: w.tick, Self: self, Other: other, Phase: phase}
	for _, fn := range w.observers {
		fn(ev)
	}
}

// Entity returns the entity registered at idx, nil if none.
func (w *World) Entity(idx types.EntityIndex) *Entity {
	return w.Registry.Get(idx)
}

// Live returns the committed entities in index order. The slice is a
// snapshot: spawns and kills during iteration do not change it.
func (w *World) Live() []*Entity {
	out := make([]*Entity, 0, w.Registry.Len())
	w.EachLive(func(e *Entity) {
		out = append(out, e)
	})
	return out
}

// EachLive calls fn for every committed entity in index order without
// building a snapshot. fn must not spawn, kill or register entities.
func (w *World) EachLive(fn func(e *Entity)) {
	for _, e := range w.Registry.slots {
		if e != nil && e.committed {
			fn(e)
		}
	}
}

// CommitStats reports what one commit did.
type CommitStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Freed   int `json:"freed"`
}

// Commit drains the pending queues: removals first, then additions. It is
// the only place where the live set changes.
func (w *World) Commit() CommitStats {
	var st CommitStats
	r := w.Registry

	removals := r.pendingRemove
	r.pendingRemove = nil
	for _, e := range removals {
		// respawned before the commit
		if e.lifecycle != enums.LifecycleMarkedForRemoval {
			continue
		}
		e.lifecycle = enums.LifecycleRemoved
		e.committed = false
		e.touching = nil
		if w.Spatial != nil {
			w.Spatial.Remove(e)
		}
		st.Removed++
		if !e.respawnable {
			// the slot may be reused: no index may still point at it
			e.unlink()
			r.Unregister(e.index)
			st.Freed++
		}
	}

	additions := r.pendingAdd
	r.pendingAdd = nil
	for _, e := range additions {
		if e.lifecycle != enums.LifecycleAlive || e.index.IsNil() {
			continue
		}
		if !e.committed {
			st.Added++
		}
		e.committed = true
		if w.Spatial != nil {
			w.Spatial.Update(e)
		}
	}

	if st.Added > 0 || st.Removed > 0 {
		logger.Component("world").WithFields(logrus.Fields{
			"tick":    w.tick,
			"added":   st.Added,
			"removed": st.Removed,
			"freed":   st.Freed,
		}).Debug("commit")
	}
	return st
}

// RestoreStats reports what FinishRestore had to repair.
type RestoreStats struct {
	DroppedLinks      int
	DroppedTouches    int
	DroppedReferences int
}

// FinishRestore completes a load once every record was read: hierarchy links
// to missing entities are dropped, touch sets are resolved, placeholders that
// never got an entity are forgotten and the spatial index is rebuilt.
func (w *World) FinishRestore() RestoreStats {
	var st RestoreStats
	r := w.Registry
	entities := r.Entities()

	for _, e := range entities {
		if !e.parent.IsNil() {
			p := r.Get(e.parent)
			if p == nil || !p.hasChild(e.index) {
				e.parent = types.NilIndex
				st.DroppedLinks++
			}
		}
		kept := e.children[:0]
		for _, idx := range e.children {
			if c := r.Get(idx); c != nil && c.parent == e.index {
				kept = append(kept, idx)
			} else {
				st.DroppedLinks++
			}
		}
		e.children = kept
	}

	for _, e := range entities {
		e.touching = nil
		for _, h := range e.restoreTouch {
			if o := Resolve(h); o != nil && o.committed {
				e.touching = append(e.touching, o)
			} else {
				st.DroppedTouches++
			}
		}
		e.restoreTouch = nil
	}

	st.DroppedReferences = r.DropUnresolved()

	// a state saved mid-tick still has queued lifecycle changes
	r.pendingAdd = nil
	r.pendingRemove = nil
	for _, e := range entities {
		switch {
		case e.lifecycle == enums.LifecycleMarkedForRemoval:
			r.pendingRemove = append(r.pendingRemove, e)
		case e.lifecycle == enums.LifecycleAlive && !e.committed:
			r.pendingAdd = append(r.pendingAdd, e)
		}
	}

	if w.Spatial != nil {
		w.Spatial.Clear()
		for _, e := range entities {
			if e.committed {
				w.Spatial.Update(e)
			}
		}
	}

	if st.DroppedLinks+st.DroppedTouches+st.DroppedReferences > 0 {
		logger.Component("world").WithFields(logrus.Fields{
			"links":      st.DroppedLinks,
			"touches":    st.DroppedTouches,
			"references": st.DroppedReferences,
		}).Warn("restore dropped dangling links")
	}
	return st
}

func (e *Entity) hasChild(idx types.EntityIndex) bool {
	for _, c := range e.children {
		if c == idx {
			return true
		}
	}
	return false
}
