package domain

import (
	"testing"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

func TestTouch_Completeness(t *testing.T) {
	w := newTestWorld()
	a, pa := spawn(t, w, enums.EntityTypePlayer, 0, 0)
	b, pb := spawn(t, w, enums.EntityTypeEnemy, 100, 0)
	w.Commit()

	steps := []float64{100, 5, 3, 100, 100}
	for _, x := range steps {
		b.SetOrigin(Vec(x, 0))
		tick(w)
	}

	wantA := []string{"start ENEMY#1", "touch ENEMY#1", "end ENEMY#1"}
	if !equalStrings(pa.events, wantA) {
		t.Errorf("a events = %v, want %v", pa.events, wantA)
	}
	wantB := []string{"start PLAYER#0", "touch PLAYER#0", "end PLAYER#0"}
	if !equalStrings(pb.events, wantB) {
		t.Errorf("b events = %v, want %v", pb.events, wantB)
	}
	if len(a.Touching()) != 0 || len(b.Touching()) != 0 {
		t.Errorf("touch sets not empty: %v %v", a.Touching(), b.Touching())
	}
}

func TestTouch_Symmetry(t *testing.T) {
	w := newTestWorld()
	a, _ := spawn(t, w, enums.EntityTypePlayer, 0, 0)
	b, _ := spawn(t, w, enums.EntityTypeEnemy, 5, 0)
	c, _ := spawn(t, w, enums.EntityTypeEnemy, 12, 0)
	d, _ := spawn(t, w, enums.EntityTypeCheckpoint, 40, 40)
	w.Commit()
	tick(w)

	all := []*Entity{a, b, c, d}
	for _, x := range all {
		for _, y := range all {
			if x == y {
				continue
			}
			overlap := x.BoundingBox().Overlaps(y.BoundingBox())
			if x.IsTouching(y) != overlap || y.IsTouching(x) != overlap {
				t.Errorf("%v/%v: overlap=%v touching=%v/%v", x, y, overlap, x.IsTouching(y), y.IsTouching(x))
			}
		}
	}

	// the touch set equals the query result exactly
	got := b.Touching()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("b touching = %v, want [a c]", got)
	}
}

func TestTouch_ChildrenExcluded(t *testing.T) {
	w := newTestWorld()
	parent, pp := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	child, pc := spawn(t, w, enums.EntityTypePlayer, 2, 2)
	w.Commit()

	if err := child.SetParent(parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	tick(w)

	if len(pp.events) != 0 {
		t.Errorf("parent touched its child: %v", pp.events)
	}
	// the child still sees its parent
	if !equalStrings(pc.events, []string{"start PLATFORM#0"}) {
		t.Errorf("child events = %v", pc.events)
	}
}

func TestTouch_Observers(t *testing.T) {
	w := newTestWorld()
	spawn(t, w, enums.EntityTypePlayer, 0, 0)
	spawn(t, w, enums.EntityTypeEnemy, 5, 0)
	w.Commit()

	var seen []TouchEvent
	w.Observe(func(ev TouchEvent) { seen = append(seen, ev) })
	tick(w)
	tick(w)

	if len(seen) != 4 {
		t.Fatalf("observed %d events, want 4", len(seen))
	}
	if seen[0].Phase != TouchStart || seen[0].Tick != 0 {
		t.Errorf("first event = %+v", seen[0])
	}
	if seen[3].Phase != TouchContinue || seen[3].Tick != 1 {
		t.Errorf("last event = %+v", seen[3])
	}
}

func TestTouch_RemovedEntityEndsTouch(t *testing.T) {
	w := newTestWorld()
	_, pa := spawn(t, w, enums.EntityTypePlayer, 0, 0)
	b, _ := spawn(t, w, enums.EntityTypeEnemy, 5, 0)
	w.Commit()
	tick(w)

	b.Kill()
	tick(w)

	want := []string{"start ENEMY#1", "end ENEMY#1"}
	if !equalStrings(pa.events, want) {
		t.Errorf("events = %v, want %v", pa.events, want)
	}
}
