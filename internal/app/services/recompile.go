package services

import (
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// RecompileScheduler coalesces rapid canvas edits into one recompile. Each
// Mark fingerprints the watched fields (titles, payload text, connection
// tuples); an unchanged fingerprint is a no-op, a changed one arms the
// debounce timer. Only the timer firing invokes the compile callback, so a
// burst of edits costs one compile.
type RecompileScheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	lastFP  uint64
	compile func()
	stopped bool
}

// NewRecompileScheduler creates a scheduler that invokes compile after the
// canvas has been quiet for delay.
func NewRecompileScheduler(delay time.Duration, compile func()) *RecompileScheduler {
	return &RecompileScheduler{delay: delay, compile: compile}
}

// Mark records that the canvas may have changed. Returns true when the
// fingerprint changed and a recompile was scheduled.
func (s *RecompileScheduler) Mark(canvas *graph.Canvas) bool {
	fp := Fingerprint(canvas)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || fp == s.lastFP {
		return false
	}
	s.lastFP = fp
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.compile)
	return true
}

// Stop cancels any pending compile. Further Marks are ignored.
func (s *RecompileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Fingerprint hashes the fields a recompile depends on: node titles and
// payload text in stable order, plus every connection tuple. Position, size,
// and flags are excluded: dragging a node must not recompile.
func Fingerprint(canvas *graph.Canvas) uint64 {
	h := fnv.New64a()
	for _, n := range canvas.Nodes() {
		writeField(h, n.ID)
		writeField(h, string(n.Kind))
		writeField(h, n.Title)
		writeField(h, n.Text())
	}
	for _, c := range canvas.Connections {
		writeField(h, c.SourceNodeID)
		writeField(h, c.SourcePortID)
		writeField(h, c.TargetNodeID)
		writeField(h, c.TargetPortID)
	}
	return h.Sum64()
}

func writeField(w io.Writer, s string) {
	_, _ = w.Write([]byte(s))
	_, _ = w.Write([]byte{0})
}
