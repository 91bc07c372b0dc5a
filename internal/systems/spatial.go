package systems

import (
	"math"
	"sort"

	"github.com/sharivan/XSharp-sub001/internal/domain"
)

// DefaultCellSize is about twice the largest hitbox of the stock kinds.
const DefaultCellSize = 64.0

type cellKey struct {
	X, Y int32
}

type cellRange struct {
	minX, minY, maxX, maxY int32
}

// SpatialHash is a uniform grid over an unbounded world. Each entity is
// stored in every cell its bounding box covers.
type SpatialHash struct {
	cellSize float64
	cells    map[cellKey][]*domain.Entity
	// cells covered by each indexed entity, to remove it without a scan
	covered map[*domain.Entity]cellRange
}

// NewSpatialHash creates an empty grid. Non-positive sizes fall back to DefaultCellSize.
func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*domain.Entity),
		covered:  make(map[*domain.Entity]cellRange),
	}
}

func (h *SpatialHash) CellSize() float64 { return h.cellSize }

// Len is the number of indexed entities.
func (h *SpatialHash) Len() int { return len(h.covered) }

func (h *SpatialHash) cellOf(v float64) int32 {
	return int32(math.Floor(v / h.cellSize))
}

func (h *SpatialHash) rangeOf(b domain.Box) cellRange {
	return cellRange{
		minX: h.cellOf(b.Min.X),
		minY: h.cellOf(b.Min.Y),
		maxX: h.cellOf(b.Max.X),
		maxY: h.cellOf(b.Max.Y),
	}
}

// Update (re)indexes e at its current bounding box.
func (h *SpatialHash) Update(e *domain.Entity) {
	r := h.rangeOf(e.BoundingBox())
	if old, ok := h.covered[e]; ok {
		if old == r {
			return
		}
		h.unlink(e, old)
	}

	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			k := cellKey{X: x, Y: y}
			h.cells[k] = append(h.cells[k], e)
		}
	}
	h.covered[e] = r
}

// Remove drops e from the grid. Unknown entities are ignored.
func (h *SpatialHash) Remove(e *domain.Entity) {
	r, ok := h.covered[e]
	if !ok {
		return
	}
	h.unlink(e, r)
	delete(h.covered, e)
}

func (h *SpatialHash) unlink(e *domain.Entity, r cellRange) {
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			k := cellKey{X: x, Y: y}
			list := h.cells[k]
			for i, other := range list {
				if other == e {
					// swap with last, order is restored by Query
					last := len(list) - 1
					list[i] = list[last]
					list = list[:last]
					break
				}
			}
			if len(list) == 0 {
				delete(h.cells, k)
			} else {
				h.cells[k] = list
			}
		}
	}
}

// Query returns the alive entities overlapping box, excluding exclude and
// excludeList, sorted by index. The result is a fresh slice.
func (h *SpatialHash) Query(box domain.Box, exclude *domain.Entity, excludeList []*domain.Entity) []*domain.Entity {
	if box.IsEmpty() {
		return nil
	}

	skip := make(map[*domain.Entity]struct{}, len(excludeList)+1)
	if exclude != nil {
		skip[exclude] = struct{}{}
	}
	for _, e := range excludeList {
		skip[e] = struct{}{}
	}

	var out []*domain.Entity
	r := h.rangeOf(box)
	for y := r.minY; y <= r.maxY; y++ {
		for x := r.minX; x <= r.maxX; x++ {
			for _, e := range h.cells[cellKey{X: x, Y: y}] {
				if _, seen := skip[e]; seen {
					continue
				}
				// an entity spanning several cells is reported once
				skip[e] = struct{}{}
				if e.Alive() && e.BoundingBox().Overlaps(box) {
					out = append(out, e)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// Clear empties the grid.
func (h *SpatialHash) Clear() {
	h.cells = make(map[cellKey][]*domain.Entity)
	h.covered = make(map[*domain.Entity]cellRange)
}

var _ domain.SpatialIndex = (*SpatialHash)(nil)
