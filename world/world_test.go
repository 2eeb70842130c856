package world

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFloorZPicksHighestStep(t *testing.T) {
	w := Flat(0, 1000)
	w.AddSolid(cube.Box(100, -50, 0, 200, 50, 30))
	w.AddSolid(cube.Box(300, -50, 0, 400, 50, 500))

	z, ok := w.FloorZ(mgl32.Vec3{0, 0, 0}, 34)
	assert.True(t, ok)
	assert.Equal(t, float32(0), z)

	z, ok = w.FloorZ(mgl32.Vec3{90, 0, 0}, 34)
	assert.True(t, ok)
	assert.Equal(t, float32(30), z, "step within reach of the capsule footprint")

	z, ok = w.FloorZ(mgl32.Vec3{290, 0, 0}, 34)
	assert.True(t, ok)
	assert.Equal(t, float32(0), z, "walls are not floors")

	_, ok = w.FloorZ(mgl32.Vec3{5000, 0, 0}, 34)
	assert.False(t, ok)
}

func TestWaterAndEncroachment(t *testing.T) {
	w := Flat(0, 1000)
	w.AddWater(cube.Box(-100, -100, 0, 100, 100, 200))
	w.AddSolid(cube.Box(500, -10, 100, 520, 10, 110))

	assert.True(t, w.InWater(mgl32.Vec3{0, 0, 50}))
	assert.False(t, w.InWater(mgl32.Vec3{0, 0, 250}))

	assert.False(t, w.Encroached(cube.Box(-34, -34, 0, 34, 34, 176)), "touching the floor is not encroaching")
	assert.True(t, w.Encroached(cube.Box(480, -34, 0, 548, 34, 176)))
}
