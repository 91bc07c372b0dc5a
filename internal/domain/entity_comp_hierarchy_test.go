package domain

import (
	"errors"
	"testing"

	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

func TestHierarchy_CycleRejection(t *testing.T) {
	w := newTestWorld()
	a, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	b, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	c, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	w.Commit()

	if err := a.SetParent(b); err != nil {
		t.Fatalf("a.SetParent(b): %v", err)
	}
	if err := b.SetParent(c); err != nil {
		t.Fatalf("b.SetParent(c): %v", err)
	}

	tests := []struct {
		name   string
		child  *Entity
		parent *Entity
	}{
		{"direct", b, a},
		{"transitive", c, a},
		{"self", a, a},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.child.SetParent(tt.parent)
			if !errors.Is(err, ErrCyclicParenting) {
				t.Fatalf("err = %v, want ErrCyclicParenting", err)
			}
			if a.Parent() != b || b.Parent() != c || c.Parent() != nil {
				t.Error("hierarchy changed after a rejected reparenting")
			}
			if len(b.Children()) != 1 || len(c.Children()) != 1 || len(a.Children()) != 0 {
				t.Error("children lists changed after a rejected reparenting")
			}
		})
	}
}

func TestHierarchy_Reparent(t *testing.T) {
	w := newTestWorld()
	p1, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	p2, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	child, _ := spawn(t, w, enums.EntityTypePlayer, 0, 0)

	if err := child.SetParent(p1); err != nil {
		t.Fatal(err)
	}
	// same parent is a no-op
	if err := child.SetParent(p1); err != nil {
		t.Fatal(err)
	}
	if len(p1.Children()) != 1 {
		t.Fatalf("p1 has %d children, want 1", len(p1.Children()))
	}

	if err := child.SetParent(p2); err != nil {
		t.Fatal(err)
	}
	if len(p1.Children()) != 0 || len(p2.Children()) != 1 || child.Parent() != p2 {
		t.Error("reparenting did not move the child")
	}
	if !p2.IsAncestorOf(child) || p1.IsAncestorOf(child) {
		t.Error("IsAncestorOf mismatch")
	}

	if err := child.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != nil || len(p2.Children()) != 0 {
		t.Error("detach failed")
	}
}

func TestHierarchy_NotRegistered(t *testing.T) {
	w := newTestWorld()
	p, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	e, _ := spawn(t, w, enums.EntityTypePlayer, 0, 0)
	w.Commit()
	e.Kill()
	w.Commit()

	if err := e.SetParent(p); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}

func TestHierarchy_DeadEntities(t *testing.T) {
	w := newTestWorld()
	p, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	child, _ := spawn(t, w, enums.EntityTypePlayer, 0, 0)
	w.Commit()

	child.Kill()
	if err := child.SetParent(p); !errors.Is(err, ErrNotAlive) {
		t.Errorf("killed child: err = %v, want ErrNotAlive", err)
	}
	if err := p.SetParent(child); !errors.Is(err, ErrNotAlive) {
		t.Errorf("killed parent: err = %v, want ErrNotAlive", err)
	}
	oldIndex := child.Index()
	w.Commit()

	// the freed slot goes to an unrelated entity
	stranger, _ := spawn(t, w, enums.EntityTypeEnemy, 500, 500)
	w.Commit()
	if stranger.Index() != oldIndex {
		t.Fatalf("stranger index = %v, want the freed %v", stranger.Index(), oldIndex)
	}
	if len(p.Children()) != 0 {
		t.Errorf("platform children = %v, want none", p.Children())
	}
	if stranger.Parent() != nil {
		t.Errorf("stranger parent = %v", stranger.Parent())
	}

	p.Move(Vec(10, 0))
	if stranger.Origin() != Vec(500, 500) {
		t.Errorf("stranger moved with the platform: %v", stranger.Origin())
	}
}

func TestHierarchy_CommitUnlinksFreedEntity(t *testing.T) {
	w := newTestWorld()
	p, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	mid, _ := spawn(t, w, enums.EntityTypeEnemy, 0, 0)
	leaf, _ := spawn(t, w, enums.EntityTypeEnemy, 0, 0)
	w.Commit()
	if err := mid.SetParent(p); err != nil {
		t.Fatal(err)
	}
	if err := leaf.SetParent(mid); err != nil {
		t.Fatal(err)
	}

	mid.Kill()
	w.Commit()
	if len(p.Children()) != 0 || leaf.Parent() != nil {
		t.Errorf("links survived removal: platform %v, leaf parent %v", p.Children(), leaf.Parent())
	}
}

func TestHierarchy_OriginPropagation(t *testing.T) {
	w := newTestWorld()
	root, _ := spawn(t, w, enums.EntityTypePlatform, 0, 0)
	mid, _ := spawn(t, w, enums.EntityTypePlatform, 10, 0)
	leaf, _ := spawn(t, w, enums.EntityTypePlayer, 10, -10)
	w.Commit()

	if err := mid.SetParent(root); err != nil {
		t.Fatal(err)
	}
	if err := leaf.SetParent(mid); err != nil {
		t.Fatal(err)
	}

	root.Move(Vec(5, 1))

	if got := mid.Origin(); got != Vec(15, 1) {
		t.Errorf("mid origin = %v, want (15, 1)", got)
	}
	if got := leaf.Origin(); got != Vec(15, -9) {
		t.Errorf("leaf origin = %v, want (15, -9)", got)
	}
	if got := leaf.LastOrigin(); got != Vec(10, -10) {
		t.Errorf("leaf last origin = %v, want (10, -10)", got)
	}

	// moving a child never moves its parent
	leaf.SetOrigin(Vec(0, 0))
	if got := mid.Origin(); got != Vec(15, 1) {
		t.Errorf("parent moved with its child: %v", got)
	}
}
