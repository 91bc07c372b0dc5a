package engine

import (
	"sync"

	"github.com/sharivan/XSharp-sub001/internal/domain"
	"github.com/sharivan/XSharp-sub001/internal/entities"
	"github.com/sharivan/XSharp-sub001/internal/systems"
	"github.com/sharivan/XSharp-sub001/pkg/api"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Instance drives one world: every Step runs the frame of each live entity
// and commits the queued lifecycle changes.
type Instance struct {
	mu    sync.RWMutex
	world *domain.World

	// touch events of the tick being stepped
	pending []api.TouchEvent
	// touch events of the last committed tick
	last []api.TouchEvent
}

func NewInstance(w *domain.World) *Instance {
	i := &Instance{}
	i.attach(w)
	return i
}

func (i *Instance) attach(w *domain.World) {
	i.world = w
	i.pending = nil
	i.last = nil
	w.Observe(i.record)
}

func (i *Instance) record(ev domain.TouchEvent) {
	i.pending = append(i.pending, api.TouchEvent{
		Tick:  ev.Tick,
		Self:  int32(ev.Self.Index()),
		Other: int32(ev.Other.Index()),
		Phase: ev.Phase.String(),
	})
}

// Step advances the world by one tick.
func (i *Instance) Step() api.TickSummary {
	i.mu.Lock()
	defer i.mu.Unlock()

	w := i.world
	tick := w.Tick()

	respawned := entities.RespawnDue(w)

	// the live set is a snapshot: kills and spawns during the loop only
	// take effect at the commit
	for _, e := range w.Live() {
		e.OnFrame()
	}

	st := w.Commit()
	w.AdvanceTick()

	i.last = i.pending
	i.pending = nil

	if respawned > 0 {
		logger.Component("engine").WithFields(logrus.Fields{
			"tick":      tick,
			"respawned": respawned,
		}).Debug("entities respawned")
	}

	return api.TickSummary{
		Type:    "TICK",
		Tick:    tick,
		Live:    len(w.Live()),
		Added:   st.Added,
		Removed: st.Removed,
		Touches: i.last,
	}
}

// Tick is the index of the next tick to run.
func (i *Instance) Tick() int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.world.Tick()
}

// WithWorld runs fn with exclusive access to the world.
func (i *Instance) WithWorld(fn func(w *domain.World) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.world)
}

// Replace swaps the driven world, e.g. after loading a state.
func (i *Instance) Replace(w *domain.World) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.attach(w)
}

// Touches returns the touch events of the last committed tick.
func (i *Instance) Touches() []api.TouchEvent {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]api.TouchEvent, len(i.last))
	copy(out, i.last)
	return out
}

// Entities builds the debug view of every registered entity, in index order.
func (i *Instance) Entities() []api.EntityView {
	i.mu.RLock()
	defer i.mu.RUnlock()

	all := i.world.Registry.Entities()
	views := make([]api.EntityView, 0, len(all))
	for _, e := range all {
		views = append(views, toEntityView(e))
	}
	return views
}

func toEntityView(e *domain.Entity) api.EntityView {
	box := e.BoundingBox()
	view := api.EntityView{
		Index:     int32(e.Index()),
		Kind:      e.Kind().String(),
		Lifecycle: e.State().String(),
		InWorld:   e.InWorld(),
		Origin:    api.Vec{X: e.Origin().X, Y: e.Origin().Y},
		Min:       api.Vec{X: box.Min.X, Y: box.Min.Y},
		Max:       api.Vec{X: box.Max.X, Y: box.Max.Y},
		Parent:    -1,
	}
	if p := e.Parent(); p != nil {
		view.Parent = int32(p.Index())
	}
	for _, c := range e.Children() {
		view.Children = append(view.Children, int32(c.Index()))
	}
	for _, o := range e.Touching() {
		view.Touching = append(view.Touching, int32(o.Index()))
	}
	if d, ok := e.Behavior().(systems.Damageable); ok {
		h := d.HealthPool()
		view.Health = &api.HealthView{HP: h.HP, MaxHP: h.MaxHP}
	}
	return view
}
