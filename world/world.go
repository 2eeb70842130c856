// Package world provides a static world made of axis-aligned volumes. Solid volumes block shapes and
// their tops act as floors; water volumes switch movement to swimming.
package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/game"
	"github.com/sasha-s/go-deadlock"
)

type World struct {
	solids []cube.BBox
	water  []cube.BBox

	deadlock.RWMutex
}

// New returns an empty world.
func New() *World {
	return &World{}
}

// Flat returns a world with a single solid floor slab whose top lies at z, spanning size units from the
// origin in every horizontal direction.
func Flat(z, size float32) *World {
	w := New()
	w.AddSolid(cube.Box(-size, -size, z-10, size, size, z))
	return w
}

// AddSolid adds a blocking volume to the world.
func (w *World) AddSolid(box cube.BBox) {
	w.Lock()
	defer w.Unlock()
	w.solids = append(w.solids, box)
}

// AddWater adds a water volume to the world.
func (w *World) AddWater(box cube.BBox) {
	w.Lock()
	defer w.Unlock()
	w.water = append(w.water, box)
}

// FloorZ returns the top of the highest solid under the footprint of a capsule with the given radius at
// pos. Solids whose top is more than a step above pos are walls, not floors, and are ignored.
func (w *World) FloorZ(pos mgl32.Vec3, radius float32) (float32, bool) {
	w.RLock()
	defer w.RUnlock()

	var (
		floor float32
		found bool
	)
	for _, b := range w.solids {
		min, max := b.Min(), b.Max()
		if max[0] <= pos[0]-radius || min[0] >= pos[0]+radius || max[1] <= pos[1]-radius || min[1] >= pos[1]+radius {
			continue
		}
		if max[2] > pos[2]+game.DefaultMaxStepHeight {
			continue
		}
		if !found || max[2] > floor {
			floor, found = max[2], true
		}
	}
	return floor, found
}

// InWater returns true if pos lies inside any water volume.
func (w *World) InWater(pos mgl32.Vec3) bool {
	w.RLock()
	defer w.RUnlock()

	for _, b := range w.water {
		min, max := b.Min(), b.Max()
		if pos[0] >= min[0] && pos[0] <= max[0] &&
			pos[1] >= min[1] && pos[1] <= max[1] &&
			pos[2] >= min[2] && pos[2] <= max[2] {
			return true
		}
	}
	return false
}

// Encroached returns true if box overlaps any solid volume. Boxes that only touch a solid do not
// encroach on it.
func (w *World) Encroached(box cube.BBox) bool {
	w.RLock()
	defer w.RUnlock()

	for _, b := range w.solids {
		if b.IntersectsWith(box) {
			return true
		}
	}
	return false
}
