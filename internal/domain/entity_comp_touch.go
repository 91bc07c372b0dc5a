package domain

// OnFrame runs one simulation tick for the entity: pre-check, think hooks and
// then the touch diff against the spatial index. Non-alive entities are skipped.
func (e *Entity) OnFrame() {
	if !e.Alive() {
		return
	}
	if !e.behavior.PreThink(e) {
		return
	}

	e.behavior.Think(e)
	e.behavior.PostThink(e)

	// think hooks may kill the entity
	if !e.Alive() {
		return
	}
	e.updateTouching()
}

// updateTouching fires exactly one notification per previous or new
// overlapping entity and leaves the touch set equal to the query result.
func (e *Entity) updateTouching() {
	if e.world.Spatial == nil {
		return
	}
	candidates := e.world.Spatial.Query(e.BoundingBox(), e, e.Children())

	remaining := make(map[*Entity]struct{}, len(candidates))
	for _, c := range candidates {
		remaining[c] = struct{}{}
	}

	for _, o := range e.touching {
		if _, ok := remaining[o]; ok {
			delete(remaining, o)
			e.behavior.Touching(e, o)
			e.world.notify(e, o, TouchContinue)
		} else {
			e.behavior.EndTouch(e, o)
			e.world.notify(e, o, TouchEnd)
		}
	}

	// candidates come sorted by index, so start events are too
	for _, c := range candidates {
		if _, ok := remaining[c]; ok {
			e.behavior.StartTouch(e, c)
			e.world.notify(e, c, TouchStart)
		}
	}

	e.touching = candidates
}

// Touching returns a copy of the current touch set, ordered by index.
func (e *Entity) Touching() []*Entity {
	return append([]*Entity(nil), e.touching...)
}

// IsTouching reports whether o is in the touch set.
func (e *Entity) IsTouching(o *Entity) bool {
	for _, t := range e.touching {
		if t == o {
			return true
		}
	}
	return false
}
