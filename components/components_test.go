package components

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{
		CameraName, CanName, FreeCameraControllerName, MeshRendererName,
		MovementName, ObstacleName, PlayerName,
	}, r.Names())

	c, ok := r.New(CameraName)
	require.True(t, ok)
	camera := c.(*Camera)
	assert.Equal(t, ecs.KindCamera, camera.Kind())
	assert.InDelta(t, math.Pi/2, camera.FovY, 1e-6)

	c, ok = r.New(CanName)
	require.True(t, ok)
	assert.Equal(t, 1, c.(*Can).Value)

	c, ok = r.New(PlayerName)
	require.True(t, ok)
	assert.Equal(t, float32(10), c.(*Player).Speed)
}

func TestCameraDeserialize(t *testing.T) {
	camera := NewCamera()
	require.NoError(t, camera.Deserialize(json.RawMessage(`{"fovY": 60, "far": 500}`)))

	assert.Equal(t, Perspective, camera.Type)
	assert.InDelta(t, math.Pi/3, camera.FovY, 1e-6)
	assert.Equal(t, float32(0.01), camera.Near)
	assert.Equal(t, float32(500), camera.Far)

	require.NoError(t, camera.Deserialize(json.RawMessage(`{"cameraType": "orthographic", "orthoHeight": 4}`)))
	assert.Equal(t, Orthographic, camera.Type)
	assert.Equal(t, float32(4), camera.OrthoHeight)
	assert.InDelta(t, math.Pi/3, camera.FovY, 1e-5)

	assert.Error(t, camera.Deserialize(json.RawMessage(`{"cameraType": "fisheye"}`)))
	assert.Error(t, camera.Deserialize(json.RawMessage(`{"fovY": "wide"}`)))
}

func TestCameraProjection(t *testing.T) {
	camera := NewCamera()
	proj := camera.ProjectionMatrix(200, 100)

	// A point straight ahead lands at the viewport centre
	clip := proj.Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-6)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-6)

	camera.Type = Orthographic
	camera.OrthoHeight = 2
	ortho := camera.ProjectionMatrix(200, 100)
	edge := ortho.Mul4x1(mgl32.Vec4{2, 1, -1, 1})
	assert.InDelta(t, 1, edge.X(), 1e-5)
	assert.InDelta(t, 1, edge.Y(), 1e-5)
}

func TestViewMatrix(t *testing.T) {
	transform := ecs.NewTransform()
	transform.Position = mgl32.Vec3{0, 1, 5}
	view := ViewMatrix(transform.Matrix())

	eye := view.Mul4x1(mgl32.Vec4{0, 1, 5, 1})
	assert.InDelta(t, 0, eye.Vec3().Len(), 1e-5)

	ahead := view.Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	assert.InDelta(t, -5, ahead.Z(), 1e-5)
}

func TestControllerDeserialize(t *testing.T) {
	c := NewFreeCameraController()
	require.NoError(t, c.Deserialize(json.RawMessage(`{"fovSensitivity": 1, "positionSensitivity": [1, 2, 3]}`)))

	assert.Equal(t, float32(0.01), c.RotationSensitivity)
	assert.InDelta(t, math.Pi/180, c.FovSensitivity, 1e-7)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.PositionSensitivity)
	assert.Equal(t, float32(5), c.SpeedupFactor)
}

func TestNonObjectInputIsIgnored(t *testing.T) {
	inputs := []string{`[]`, `7`, `"can"`, `null`, ``}
	for _, in := range inputs {
		can := &Can{}
		can.SetDefaults()
		assert.NoError(t, can.Deserialize(json.RawMessage(in)), in)
		assert.Equal(t, 1, can.Value)

		player := &Player{}
		player.SetDefaults()
		assert.NoError(t, player.Deserialize(json.RawMessage(in)), in)
		assert.Equal(t, float32(10), player.Speed)
	}
}

func TestCanDeserialize(t *testing.T) {
	can := &Can{}
	can.SetDefaults()

	require.NoError(t, can.Deserialize(json.RawMessage(`{"color": "red"}`)))
	assert.Equal(t, 1, can.Value)

	require.NoError(t, can.Deserialize(json.RawMessage(`{"value": 3}`)))
	assert.Equal(t, 3, can.Value)
}

func TestObstacleDeserialize(t *testing.T) {
	o := &Obstacle{}
	o.SetDefaults()

	require.NoError(t, o.Deserialize(json.RawMessage(`{"avoid": "slide"}`)))
	assert.Equal(t, AvoidSlide, o.Avoid)
	assert.Equal(t, float32(1), o.Radius)

	require.NoError(t, o.Deserialize(json.RawMessage(`{"radius": 2.5}`)))
	assert.Equal(t, AvoidSlide, o.Avoid)
	assert.Equal(t, float32(2.5), o.Radius)

	assert.Error(t, o.Deserialize(json.RawMessage(`{"avoid": "duck"}`)))
}

func TestMovementAndMeshRenderer(t *testing.T) {
	m := &Movement{}
	require.NoError(t, m.Deserialize(json.RawMessage(`{"linearVelocity": [0, 0, -1], "angularVelocity": [0, 180, 0]}`)))
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, m.LinearVelocity)
	assert.InDelta(t, math.Pi, m.AngularVelocity.Y(), 1e-6)

	r := &MeshRenderer{}
	require.NoError(t, r.Deserialize(json.RawMessage(`{"mesh": "can", "material": "pepsi"}`)))
	assert.Equal(t, "can", r.Mesh)
	assert.Equal(t, "pepsi", r.Material)
}
