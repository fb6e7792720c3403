package testsupport

import (
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// LogRecorder keeps every line written through its logger.
type LogRecorder struct {
	mu    sync.Mutex
	lines []string
}

// NewLogger returns a V(1) logger that forwards to t.Log and records each
// line in the returned LogRecorder.
func NewLogger(t testing.TB) (logr.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	log := funcr.New(func(prefix, args string) {
		line := strings.TrimSpace(prefix + " " + args)
		rec.mu.Lock()
		rec.lines = append(rec.lines, line)
		rec.mu.Unlock()
		t.Log(line)
	}, funcr.Options{Verbosity: 1})
	return log, rec
}

// Lines returns a copy of the recorded lines.
func (r *LogRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Contains reports whether any recorded line contains substr.
func (r *LogRecorder) Contains(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
