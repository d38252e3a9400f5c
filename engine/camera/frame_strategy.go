package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// FrameStrategy mutates the camera just before the matrices of a frame are
// computed. It runs inside Camera.FrameTick on the frame-loop goroutine.
type FrameStrategy interface {
	// OnFrameTick is called once per frame with the camera being ticked.
	//
	// Parameters:
	//   - c: the camera; any mutator may be called on it
	OnFrameTick(c Camera)
}

// FrameStrategyFunc adapts a plain function to FrameStrategy.
type FrameStrategyFunc func(c Camera)

func (f FrameStrategyFunc) OnFrameTick(c Camera) {
	f(c)
}

// FollowStrategy is the chase-camera FrameStrategy. Each tick it reads the
// newest pose from its source and moves the camera rigidly with the tracked
// frame since the previous sample, so the view stays fixed relative to the
// vehicle while it drives and turns.
type FollowStrategy struct {
	source      pose.Source
	trackHeight bool
	logger      zerolog.Logger

	prev    pose.Pose
	hasPrev bool
}

var _ FrameStrategy = &FollowStrategy{}

// NewFollowStrategy creates a follow strategy reading from source.
//
// Parameters:
//   - source: the pose source to follow
//   - trackHeight: if true, lookAt.z is pinned to the tracked height every tick
//   - logger: logger for follow events
//
// Returns:
//   - *FollowStrategy: the strategy
func NewFollowStrategy(source pose.Source, trackHeight bool, logger zerolog.Logger) *FollowStrategy {
	return &FollowStrategy{
		source:      source,
		trackHeight: trackHeight,
		logger:      logger.With().Str("component", "follow").Logger(),
	}
}

// Reset forgets the previous sample; the next tick only records a baseline.
func (f *FollowStrategy) Reset() {
	f.hasPrev = false
	f.prev = pose.Pose{}
}

func (f *FollowStrategy) OnFrameTick(c Camera) {
	cur, ok := f.source.Latest()
	if !ok {
		return
	}

	if f.hasPrev && cur.Seq != f.prev.Seq {
		c.FollowFrame(f.prev.Position, cur.Position, f.prev.Orientation, cur.Orientation)
	} else if !f.hasPrev {
		f.logger.Debug().Uint64("seq", cur.Seq).Msg("follow baseline recorded")
	}
	if f.trackHeight {
		c.SetLookAtZ(cur.Position.Z())
	}

	f.prev = cur
	f.hasPrev = true
}

// JumpToPose resets the camera and places it behind the tracked frame,
// looking along the frame's heading at ground level below it.
//
// Parameters:
//   - c: the camera to move
//   - p: the tracked pose
func JumpToPose(c Camera, p pose.Pose) {
	c.Reset()
	c.JumpTo(mgl64.Vec3{p.Position.X(), p.Position.Y(), 0}, p.Yaw()+math.Pi/2)
}
