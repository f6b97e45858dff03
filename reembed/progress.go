package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reembedding progress to a writer as a single
// rewritten terminal line. Safe for concurrent use.
type ProgressTracker struct {
	mu sync.Mutex

	writer         io.Writer
	total          int
	reportInterval int

	current      int
	lastReported int
	startedAt    time.Time
	started      bool
}

// NewProgressTracker creates a tracker that reports every reportInterval
// chunks out of total. Output goes to writer (typically os.Stderr).
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets the tracker and records the start time.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the absolute progress. Values above total are capped.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance(current)
}

// Increment advances progress by delta chunks.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance(p.current + delta)
}

// Finish forces the progress to 100% and terminates the progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start. Zero before Start is called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startedAt)
}

// advance moves progress to current and reports when a full interval has
// passed since the last report. Must be called with the lock held.
func (p *ProgressTracker) advance(current int) {
	if !p.started {
		return
	}

	if current > p.total {
		current = p.total
	}
	p.current = current

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// report rewrites the progress line. Must be called with the lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startedAt)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	var eta string
	if rate > 0 && p.current < p.total {
		remaining := time.Duration(float64(p.total-p.current)/rate) * time.Second
		eta = fmt.Sprintf(" - ETA %s", remaining.Round(time.Second))
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f chunks/s%s",
		p.current, p.total, percentage, rate, eta)
}
