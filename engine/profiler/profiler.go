package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Stats is one profiler report.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	logger         zerolog.Logger
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler reporting once per interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - logger: destination for the periodic reports
//   - interval: reporting interval
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger zerolog.Logger, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		logger:         logger.With().Str("component", "profiler").Logger(),
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per frame to track frame timing.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	return p.TickAt(time.Now())
}

// TickAt records a frame at the given time and reports when the interval has elapsed.
// Reports include FPS, heap usage, allocation rate, GC count/pause times and total memory.
//
// Parameters:
//   - now: the frame time
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) TickAt(now time.Time) bool {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows (churn), Sys is the process footprint.
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info().
		Float64("fps", s.FPS).
		Float64("heap_mb", s.HeapMB).
		Float64("alloc_rate_mb", s.AllocRateMB).
		Uint32("gc", s.NumGC).
		Uint64("gc_last_us", s.LastPauseUs).
		Uint64("gc_max_us", s.MaxPauseUs).
		Float64("sys_mb", s.SysMB).
		Msg("frame stats")

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the most recent report, zero before the first one.
//
// Returns:
//   - Stats: the report
func (p *Profiler) Last() Stats {
	return p.last
}
