package components

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
)

type CameraType int

const (
	Perspective CameraType = iota
	Orthographic
)

func (t CameraType) String() string {
	if t == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera turns the owning entity into a viewpoint. The view looks down the entity's -Z axis.
type Camera struct {
	Type CameraType
	// FovY is the vertical field of view in radians
	FovY        float32
	Near        float32
	Far         float32
	OrthoHeight float32
}

// NewCamera returns a perspective camera with the scene-file defaults
func NewCamera() *Camera {
	c := &Camera{}
	c.SetDefaults()
	return c
}

func (*Camera) Kind() ecs.Kind { return ecs.KindCamera }

func (c *Camera) SetDefaults() {
	*c = Camera{
		Type:        Perspective,
		FovY:        mgl32.DegToRad(90),
		Near:        0.01,
		Far:         100,
		OrthoHeight: 1,
	}
}

// Deserialize reads the camera keys present in data. fovY is given in degrees.
func (c *Camera) Deserialize(data json.RawMessage) error {
	if !isObject(data) {
		return nil
	}

	raw := struct {
		CameraType  string  `json:"cameraType"`
		FovY        float32 `json:"fovY"`
		Near        float32 `json:"near"`
		Far         float32 `json:"far"`
		OrthoHeight float32 `json:"orthoHeight"`
	}{
		CameraType:  c.Type.String(),
		FovY:        mgl32.RadToDeg(c.FovY),
		Near:        c.Near,
		Far:         c.Far,
		OrthoHeight: c.OrthoHeight,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("camera: %w", err)
	}

	switch raw.CameraType {
	case "perspective":
		c.Type = Perspective
	case "orthographic":
		c.Type = Orthographic
	default:
		return fmt.Errorf("camera: unknown cameraType %q", raw.CameraType)
	}
	c.FovY = mgl32.DegToRad(raw.FovY)
	c.Near = raw.Near
	c.Far = raw.Far
	c.OrthoHeight = raw.OrthoHeight
	return nil
}

// ProjectionMatrix builds the projection for a viewport of the given pixel size
func (c *Camera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	if c.Type == Orthographic {
		halfH := c.OrthoHeight / 2
		halfW := halfH * aspect
		return mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.Near, c.Far)
	}
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewMatrix derives the view matrix from the camera entity's local-to-world matrix
func ViewMatrix(localToWorld mgl32.Mat4) mgl32.Mat4 {
	eye := localToWorld.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	center := localToWorld.Mul4x1(mgl32.Vec4{0, 0, -1, 1}).Vec3()
	up := localToWorld.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	return mgl32.LookAtV(eye, center, up)
}
