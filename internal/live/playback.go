package live

import (
	"sync"
	"time"
)

// ScheduledBuffer is one decoded audio chunk handed to the output device.
type ScheduledBuffer struct {
	Samples    []float32
	SampleRate int
	// Start is the playback position on the session clock (zero at session
	// start).
	Start time.Duration
}

func (b ScheduledBuffer) Duration() time.Duration {
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// PlaybackSink plays scheduled buffers. Play returns a stop function that
// cancels the buffer if it has not finished.
type PlaybackSink interface {
	Play(buf ScheduledBuffer) (stop func())
}

// playbackScheduler queues inbound audio for gapless sequential playback.
// Each buffer starts at the later of "now" and the previous buffer's end, so
// network jitter can neither overlap chunks nor leave holes between them.
type playbackScheduler struct {
	sink PlaybackSink
	now  func() time.Duration // session clock

	mu        sync.Mutex
	nextStart time.Duration
	stops     []func()
}

func newPlaybackScheduler(sink PlaybackSink, now func() time.Duration) *playbackScheduler {
	return &playbackScheduler{sink: sink, now: now}
}

// schedule queues one buffer and returns its start position.
func (p *playbackScheduler) schedule(samples []float32, sampleRate int) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := p.now()
	if p.nextStart > start {
		start = p.nextStart
	}
	buf := ScheduledBuffer{Samples: samples, SampleRate: sampleRate, Start: start}
	p.nextStart = start + buf.Duration()
	p.stops = append(p.stops, p.sink.Play(buf))
	return start
}

// stopAll cancels every in-flight buffer and rewinds the schedule.
func (p *playbackScheduler) stopAll() {
	p.mu.Lock()
	stops := p.stops
	p.stops = nil
	p.nextStart = 0
	p.mu.Unlock()

	for _, stop := range stops {
		if stop != nil {
			stop()
		}
	}
}
