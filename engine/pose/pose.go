// Package pose carries samples of an externally tracked reference frame
// (typically the vehicle pose published by localization) into the viewer.
package pose

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// Pose is one sample of a tracked frame in world coordinates.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	// Stamp is the time the sample was taken by the producer.
	Stamp time.Time
	// Seq is assigned by Buffer.Publish and increases by one per sample.
	Seq uint64
}

// Yaw returns the heading of the frame around world Z, in radians.
func (p Pose) Yaw() float64 {
	return common.Yaw(p.Orientation)
}

// Source provides the most recent pose sample.
type Source interface {
	// Latest returns the newest sample.
	//
	// Returns:
	//   - Pose: the newest sample
	//   - bool: false if nothing has been published yet
	Latest() (Pose, bool)
}

// Buffer is a thread-safe single-slot Source. Producers call Publish from any
// goroutine; the viewer reads with Latest on its own thread.
type Buffer struct {
	mu     sync.RWMutex
	latest Pose
	seq    uint64
}

var _ Source = &Buffer{}

// NewBuffer creates an empty pose buffer.
//
// Returns:
//   - *Buffer: the buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Publish stores p as the newest sample and returns the sequence number it was given.
// A zero orientation is replaced by the identity so consumers never see an invalid rotation.
//
// Parameters:
//   - p: the sample to store
//
// Returns:
//   - uint64: the assigned sequence number (1 for the first sample)
func (b *Buffer) Publish(p Pose) uint64 {
	if p.Orientation == (mgl64.Quat{}) {
		p.Orientation = mgl64.QuatIdent()
	}
	if p.Stamp.IsZero() {
		p.Stamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	p.Seq = b.seq
	b.latest = p
	return p.Seq
}

func (b *Buffer) Latest() (Pose, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.seq > 0
}
