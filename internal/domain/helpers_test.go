package domain

import (
	"sort"
	"testing"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

// listIndex is a linear SpatialIndex, enough for small worlds.
type listIndex struct {
	entities map[*Entity]struct{}
}

func newListIndex() *listIndex {
	return &listIndex{entities: make(map[*Entity]struct{})}
}

func (l *listIndex) Update(e *Entity) { l.entities[e] = struct{}{} }
func (l *listIndex) Remove(e *Entity) { delete(l.entities, e) }
func (l *listIndex) Clear() { l.entities = make(map[*Entity]struct{}) }

func (l *listIndex) Query(box Box, exclude *Entity, excludeList []*Entity) []*Entity {
	var out []*Entity
next:
	for e := range l.entities {
		if e == exclude || !e.Alive() || !e.BoundingBox().Overlaps(box) {
			continue
		}
		for _, x := range excludeList {
			if x == e {
				continue next
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// testBehavior records every hook call and can be scripted per test.
type testBehavior struct {
	BaseBehavior
	kind enums.EntityType

	skip    bool
	onThink func(e *Entity)
	onDeath func(e *Entity)

	thinks int
	events []string
}

func (p *testBehavior) Kind() enums.EntityType { return p.kind }

func (p *testBehavior) PreThink(*Entity) bool { return !p.skip }

func (p *testBehavior) Think(e *Entity) {
	p.thinks++
	if p.onThink != nil {
		p.onThink(e)
	}
}

func (p *testBehavior) StartTouch(_, o *Entity) { p.events = append(p.events, "start "+o.String()) }
func (p *testBehavior) Touching(_, o *Entity) { p.events = append(p.events, "touch "+o.String()) }
func (p *testBehavior) EndTouch(_, o *Entity) { p.events = append(p.events, "end "+o.String()) }

func (p *testBehavior) Death(e *Entity) {
	if p.onDeath != nil {
		p.onDeath(e)
	}
}

func newTestWorld() *World {
	return NewWorld(newListIndex(), 16, 0x1234)
}

// spawn creates and spawns a 10x10 entity of kind at (x, y), without committing.
func spawn(t *testing.T, w *World, kind enums.EntityType, x, y float64) (*Entity, *testBehavior) {
	t.Helper()
	p := &testBehavior{kind: kind}
	e, err := NewEntity(w, p, Vec(x, y))
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	e.SetHitbox(BoxAt(0, 0, 10, 10))
	if err := e.Spawn(); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return e, p
}

// tick mimics the engine driver: OnFrame over the live snapshot, then commit.
func tick(w *World) CommitStats {
	for _, e := range w.Live() {
		e.OnFrame()
	}
	st := w.Commit()
	w.AdvanceTick()
	return st
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
