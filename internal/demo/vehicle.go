// Package demo produces a synthetic vehicle pose stream so the viewer can be
// tried without a localization feed.
package demo

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// Vehicle drives counter-clockwise around a circle centered on the origin,
// with a gentle height swell so follow-with-height has something to track.
type Vehicle struct {
	Radius float64 // meters
	Speed  float64 // meters per second
	Swell  float64 // peak height change in meters

	angle float64
	now   func() time.Time
}

// NewVehicle creates a vehicle on a circle of the given radius moving at speed.
//
// Parameters:
//   - radius: circle radius in meters, values <= 0 become 40
//   - speed: ground speed in meters per second
//
// Returns:
//   - *Vehicle: the vehicle at angle 0, i.e. at (radius, 0)
func NewVehicle(radius, speed float64) *Vehicle {
	if radius <= 0 {
		radius = 40
	}
	return &Vehicle{Radius: radius, Speed: speed, Swell: 1, now: time.Now}
}

// Pose returns the vehicle's current pose. Heading is tangent to the circle.
func (v *Vehicle) Pose() pose.Pose {
	position := mgl64.Vec3{
		v.Radius * math.Cos(v.angle),
		v.Radius * math.Sin(v.angle),
		v.Swell * math.Sin(2*v.angle),
	}
	heading := v.angle + math.Pi/2
	return pose.Pose{
		Position:    position,
		Orientation: mgl64.QuatRotate(heading, mgl64.Vec3{0, 0, 1}),
		Stamp:       v.now(),
	}
}

// Advance moves the vehicle by deltaTime seconds along the circle and returns the new pose.
func (v *Vehicle) Advance(deltaTime float64) pose.Pose {
	v.angle = math.Mod(v.angle+v.Speed*deltaTime/v.Radius, 2*math.Pi)
	return v.Pose()
}

// Drive returns a tick callback that advances the vehicle and publishes each pose to buf.
//
// Parameters:
//   - buf: the pose buffer the viewer follows
//
// Returns:
//   - func(float32): a callback suitable for Viewer.SetTickCallback
func (v *Vehicle) Drive(buf *pose.Buffer) func(deltaTime float32) {
	return func(deltaTime float32) {
		buf.Publish(v.Advance(float64(deltaTime)))
	}
}
