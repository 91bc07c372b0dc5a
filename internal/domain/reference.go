package domain

import (
	"github.com/sharivan/XSharp-sub001/internal/core/types"
	"github.com/sharivan/XSharp-sub001/internal/core/types/enums"
)

// Handle is the capability set shared by everything that refers to an entity:
// the entity itself (direct reference), a Proxy and a Deferred placeholder.
type Handle interface {
	Index() types.EntityIndex
	// Expected is the kind the holder of the reference asked for.
	Expected() enums.EntityType
	// Target returns the referenced entity, nil while unresolved.
	Target() *Entity
	Resolved() bool

	Origin() Vector
	BoundingBox() Box
	Alive() bool
}

// Resolve returns the entity behind h, nil for absent or unresolved references.
func Resolve(h Handle) *Entity {
	if h == nil {
		return nil
	}
	return h.Target()
}

// SameEntity reports whether two handles point at the same resolved entity.
func SameEntity(a, b Handle) bool {
	ea, eb := Resolve(a), Resolve(b)
	return ea != nil && ea == eb
}

// IndexOf returns the index behind h, NilIndex for absent references.
func IndexOf(h Handle) types.EntityIndex {
	if h == nil {
		return types.NilIndex
	}
	if e := h.Target(); e != nil {
		return e.Index()
	}
	return h.Index()
}

// Proxy wraps an entity whose concrete kind differs from the kind expected at
// the reference site. Every capability forwards to the inner entity.
//
// Proxies are not interned: two proxies to the same entity are different
// values, compare them through Target or SameEntity.
type Proxy struct {
	inner    *Entity
	expected enums.EntityType
}

// NewProxy wraps inner as a reference of the expected kind.
func NewProxy(inner *Entity, expected enums.EntityType) *Proxy {
	return &Proxy{inner: inner, expected: expected}
}

func (p *Proxy) Index() types.EntityIndex { return p.inner.Index() }
func (p *Proxy) Expected() enums.EntityType { return p.expected }
func (p *Proxy) Target() *Entity { return p.inner }
func (p *Proxy) Resolved() bool { return true }
func (p *Proxy) Origin() Vector { return p.inner.Origin() }
func (p *Proxy) BoundingBox() Box { return p.inner.BoundingBox() }
func (p *Proxy) Alive() bool { return p.inner.Alive() }

// Actual is the concrete kind of the wrapped entity.
func (p *Proxy) Actual() enums.EntityType { return p.inner.Kind() }

// Related reports whether the two kinds are in a sub/super-kind relation.
func (p *Proxy) Related() bool {
	a := p.inner.Kind()
	return a.IsA(p.expected) || p.expected.IsA(a)
}

// AsProxy returns the proxy behind h when h forwards to an entity of another
// kind than expected: either a Proxy or a Deferred completed with a
// mismatched entity.
func AsProxy(h Handle) (*Proxy, bool) {
	switch v := h.(type) {
	case *Proxy:
		return v, true
	case *Deferred:
		if v.proxy != nil {
			return v.proxy, true
		}
	}
	return nil, false
}

// Deferred stands for an index that had no entity when the reference was
// read. The registry completes it the moment an entity registers at that
// index; from then on it forwards like a direct reference, or through a
// Proxy when the kinds differ.
type Deferred struct {
	index    types.EntityIndex
	expected enums.EntityType
	target   *Entity
	proxy    *Proxy
}

func (d *Deferred) Index() types.EntityIndex { return d.index }
func (d *Deferred) Expected() enums.EntityType { return d.expected }
func (d *Deferred) Target() *Entity { return d.target }
func (d *Deferred) Resolved() bool { return d.target != nil }

func (d *Deferred) Origin() Vector {
	if d.target == nil {
		return Vector{}
	}
	return d.target.Origin()
}

func (d *Deferred) BoundingBox() Box {
	if d.target == nil {
		return Box{}
	}
	return d.target.BoundingBox()
}

func (d *Deferred) Alive() bool {
	return d.target != nil && d.target.Alive()
}

// Mismatched reports whether the completed target has another kind than expected.
func (d *Deferred) Mismatched() bool { return d.proxy != nil }

// Proxy is the forwarding proxy of a mismatched completion, nil otherwise.
func (d *Deferred) Proxy() *Proxy { return d.proxy }

func (d *Deferred) complete(e *Entity) {
	d.target = e
	if d.expected != enums.EntityTypeAny && e.Kind() != d.expected {
		d.proxy = NewProxy(e, d.expected)
	}
}
