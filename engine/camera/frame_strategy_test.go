package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

func TestFollowStrategyWithoutSampleLeavesCamera(t *testing.T) {
	c := newTestCamera(t)
	setTiltedPose(c)
	eye := c.Eye()
	c.SetFrameStrategy(NewFollowStrategy(pose.NewBuffer(), true, zerolog.Nop()))

	c.FrameTick()

	assert.Equal(t, eye, c.Eye())
	assert.Equal(t, mgl64.Vec3{}, c.LookAt())
}

func TestFollowStrategyMovesWithPose(t *testing.T) {
	c := newTestCamera(t)
	setTiltedPose(c)
	buf := pose.NewBuffer()
	c.SetFrameStrategy(NewFollowStrategy(buf, false, zerolog.Nop()))

	buf.Publish(pose.Pose{Position: mgl64.Vec3{}, Orientation: mgl64.QuatIdent()})
	c.FrameTick()
	assertVecInDelta(t, mgl64.Vec3{0, -50, 50}, c.Eye(), 1e-12, "first sample only records a baseline")

	buf.Publish(pose.Pose{
		Position:    mgl64.Vec3{10, 5, 0},
		Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	})
	c.FrameTick()
	assertVecInDelta(t, mgl64.Vec3{10, 5, 0}, c.LookAt(), 1e-9)
	assertVecInDelta(t, mgl64.Vec3{60, 5, 50}, c.Eye(), 1e-9)

	c.FrameTick()
	assertVecInDelta(t, mgl64.Vec3{60, 5, 50}, c.Eye(), 1e-9, "same sample is not applied twice")
}

func TestFollowStrategyTracksHeight(t *testing.T) {
	c := newTestCamera(t)
	buf := pose.NewBuffer()
	c.SetFrameStrategy(NewFollowStrategy(buf, true, zerolog.Nop()))

	buf.Publish(pose.Pose{Position: mgl64.Vec3{0, 0, 2}})
	c.FrameTick()

	assert.Equal(t, 2.0, c.LookAtZ())
	assert.InDelta(t, 48.0, c.EyeDistance(), 1e-12)
}

func TestFollowStrategyResetRecordsNewBaseline(t *testing.T) {
	c := newTestCamera(t)
	setTiltedPose(c)
	buf := pose.NewBuffer()
	follow := NewFollowStrategy(buf, false, zerolog.Nop())
	c.SetFrameStrategy(follow)

	buf.Publish(pose.Pose{Position: mgl64.Vec3{}})
	c.FrameTick()
	follow.Reset()
	buf.Publish(pose.Pose{Position: mgl64.Vec3{100, 0, 0}})
	c.FrameTick()

	assertVecInDelta(t, mgl64.Vec3{0, -50, 50}, c.Eye(), 1e-12)

	buf.Publish(pose.Pose{Position: mgl64.Vec3{110, 0, 0}})
	c.FrameTick()

	assertVecInDelta(t, mgl64.Vec3{10, -50, 50}, c.Eye(), 1e-9)
}

func TestJumpToPosePlacesCameraOverPose(t *testing.T) {
	c := newTestCamera(t)
	setTiltedPose(c)

	JumpToPose(c, pose.Pose{Position: mgl64.Vec3{10, 20, 3}, Orientation: mgl64.QuatIdent()})

	// After the reset the horizontal distance is zero, so the eye sits
	// straight above the ground point with up along the heading.
	assertVecInDelta(t, mgl64.Vec3{10, 20, 50}, c.Eye(), 1e-9)
	assert.Equal(t, mgl64.Vec3{10, 20, 0}, c.LookAt())
	assertVecInDelta(t, mgl64.Vec3{0, 50, 0}, c.Up(), 1e-9)
	assert.True(t, c.IsOrthographic())
}
