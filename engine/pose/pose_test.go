package pose

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferEmpty(t *testing.T) {
	_, ok := NewBuffer().Latest()
	assert.False(t, ok)
}

func TestBufferPublishAssignsSequence(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, uint64(1), b.Publish(Pose{Position: mgl64.Vec3{1, 2, 3}}))
	assert.Equal(t, uint64(2), b.Publish(Pose{Position: mgl64.Vec3{4, 5, 6}}))

	p, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), p.Seq)
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, p.Position)
	assert.Equal(t, mgl64.QuatIdent(), p.Orientation)
	assert.False(t, p.Stamp.IsZero())
}

func TestPoseYaw(t *testing.T) {
	p := Pose{Orientation: mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 0, 1})}
	assert.InDelta(t, math.Pi/3, p.Yaw(), 1e-9)
}

func TestBufferConcurrentPublish(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.Publish(Pose{})
				b.Latest()
			}
		}()
	}
	wg.Wait()

	p, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(800), p.Seq)
}
