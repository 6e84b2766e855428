package scene

import (
	"github.com/chewxy/math32"

	"planet-render/math"
)

type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
)

const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45
	DefaultRollSpeed   float32 = 45 // degrees per second

	MinZoom float32 = 1
	MaxZoom float32 = 45
)

// Camera is a free-flying camera driven by Euler angles. Yaw and pitch come
// from the mouse, roll from the keyboard. Angles are in degrees.
type Camera struct {
	Position math.Vec3
	Front    math.Vec3
	Up       math.Vec3
	Right    math.Vec3
	WorldUp  math.Vec3

	Yaw   float32
	Pitch float32
	Roll  float32

	MovementSpeed    float32
	MouseSensitivity float32
	RollSpeed        float32
	Zoom             float32

	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	dirty            bool
}

func NewCamera(position math.Vec3, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{
		Position:         position,
		WorldUp:          math.Vec3Up,
		Yaw:              DefaultYaw,
		Pitch:            DefaultPitch,
		MovementSpeed:    DefaultSpeed,
		MouseSensitivity: DefaultSensitivity,
		RollSpeed:        DefaultRollSpeed,
		Zoom:             DefaultZoom,
		AspectRatio:      aspectRatio,
		NearPlane:        nearPlane,
		FarPlane:         farPlane,
	}
	c.updateVectors()
	return c
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) ProcessKeyboard(dir Movement, deltaTime float32) {
	velocity := c.MovementSpeed * deltaTime
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(velocity))
	}
	c.dirty = true
}

// ProcessMouseMovement turns the camera. Pitch is clamped to ±89 degrees.
func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32) {
	c.Yaw += xoffset * c.MouseSensitivity
	c.Pitch += yoffset * c.MouseSensitivity
	c.Pitch = math.Clamp(c.Pitch, -89, 89)
	c.updateVectors()
}

func (c *Camera) ProcessMouseScroll(yoffset float32) {
	c.Zoom = math.Clamp(c.Zoom-yoffset, MinZoom, MaxZoom)
	c.dirty = true
}

// ProcessRotation rolls the camera around its view direction. direction is
// -1 or 1.
func (c *Camera) ProcessRotation(direction, deltaTime float32) {
	c.Roll += direction * c.RollSpeed * deltaTime
	c.Roll = math32.Mod(c.Roll, 360)
	c.updateVectors()
}

func (c *Camera) updateVectors() {
	yaw, pitch := math.Radians(c.Yaw), math.Radians(c.Pitch)
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)

	c.Front = math.Vec3{X: cy * cp, Y: sp, Z: sy * cp}.Normalize()
	right := c.Front.Cross(c.WorldUp).Normalize()
	up := right.Cross(c.Front).Normalize()

	roll := math.QuaternionFromAxisAngle(c.Front, math.Radians(c.Roll))
	c.Up = roll.RotateVector(up).Normalize()
	c.Right = c.Front.Cross(c.Up).Normalize()
	c.dirty = true
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) updateMatrices() {
	c.viewMatrix = math.Mat4LookAt(c.Position, c.Position.Add(c.Front), c.Up)
	c.projectionMatrix = math.Mat4Perspective(math.Radians(c.Zoom), c.AspectRatio, c.NearPlane, c.FarPlane)
	c.dirty = false
}
