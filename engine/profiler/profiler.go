package profiler

import (
	"log"
	"runtime"
	"time"
)

// FrameStats carries per-frame derivation counters into the profiler.
// The cache counters are cumulative, matching the renderer's Stats
// snapshot; the profiler diffs them between log lines.
type FrameStats struct {
	Objects   int
	CacheHits uint64
	CacheMiss uint64
	CullSkips uint64
}

// Profiler tracks frame rate, derivation cache behavior, and memory
// statistics for performance monitoring. Outputs stats to the log at a
// configurable interval.
type Profiler struct {
	frameCount     int
	objectCount    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastHits       uint64
	lastMisses     uint64
	lastCullSkips  uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		frameCount:     0,
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
}

// Tick should be called once per derived frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, objects per frame, cache hit ratio, cull skips,
// heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - stats: the derivation counters for this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats FrameStats) bool {
	p.frameCount++
	p.objectCount += stats.Objects
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed >= p.updateInterval {
		fps := float64(p.frameCount) / elapsed.Seconds()
		objectsPerFrame := float64(p.objectCount) / float64(p.frameCount)

		hits := stats.CacheHits - p.lastHits
		misses := stats.CacheMiss - p.lastMisses
		cullSkips := stats.CullSkips - p.lastCullSkips
		hitRatio := 0.0
		if hits+misses > 0 {
			hitRatio = float64(hits) / float64(hits+misses) * 100
		}

		runtime.ReadMemStats(&p.memStats)
		// Alloc: Bytes of allocated heap objects (live memory)
		// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
		// Sys: Total bytes of memory obtained from the OS (actual process footprint)
		allocMB := float64(p.memStats.Alloc) / 1024 / 1024
		sysMB := float64(p.memStats.Sys) / 1024 / 1024

		// Calculate allocation rate (MB/sec)
		allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
		allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

		// Calculate GC pause stats (last pause and max recent pause)
		gcCount := p.memStats.NumGC
		var lastPauseUs, maxPauseUs uint64
		if gcCount > 0 {
			// PauseNs is a circular buffer of last 256 GC pauses
			lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

			// Find max pause since last tick
			startIdx := p.lastGCCount
			if gcCount-startIdx > 256 {
				startIdx = gcCount - 256
			}
			for i := startIdx; i < gcCount; i++ {
				pause := p.memStats.PauseNs[i%256] / 1000
				if pause > maxPauseUs {
					maxPauseUs = pause
				}
			}
		}

		log.Printf("[Profiler] FPS: %.2f | Objects: %.1f | Cache: %.1f%% hit (%d skip) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			fps, objectsPerFrame, hitRatio, cullSkips, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

		p.frameCount = 0
		p.objectCount = 0
		p.lastTime = currentTime
		p.lastGCCount = gcCount
		p.lastTotalAlloc = p.memStats.TotalAlloc
		p.lastHits = stats.CacheHits
		p.lastMisses = stats.CacheMiss
		p.lastCullSkips = stats.CullSkips
		return true
	}

	return false
}
