package ecs

import "github.com/go-gl/mathgl/mgl32"

// Transform holds the placement of an entity. Every entity owns one at
// index 0.
type Transform struct {
	Base

	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Rotation mgl32.Quat

	// Heading is the planar yaw in radians about +Y. Physics steers it;
	// Orientation composes it with Rotation.
	Heading float32
}

// NewTransform creates a transform at pos with the given rotation and unit scale.
func NewTransform(pos mgl32.Vec3, rot mgl32.Quat) *Transform {
	t := &Transform{
		Position: pos,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	t.SetRotation(rot)
	return t
}

func newDefaultTransform() *Transform {
	return NewTransform(mgl32.Vec3{}, mgl32.QuatIdent())
}

func (*Transform) Kind() Kind { return KindTransform }

// SetRotation replaces the rotation with the normalized form of q.
// A zero quaternion resets to identity.
func (t *Transform) SetRotation(q mgl32.Quat) {
	if q.Len() == 0 {
		t.Rotation = mgl32.QuatIdent()
		return
	}
	t.Rotation = q.Normalize()
}

// Rotate composes q after the current rotation and re-normalizes.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.SetRotation(q.Mul(t.Rotation))
}

// Orientation is Rotation followed by the heading yaw.
func (t *Transform) Orientation() mgl32.Quat {
	yaw := mgl32.QuatRotate(t.Heading, mgl32.Vec3{0, 1, 0})
	return yaw.Mul(t.Rotation).Normalize()
}

// Matrix returns translate * orientation * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Orientation().Mat4()).Mul4(scale)
}
