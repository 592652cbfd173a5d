package ecto_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo/mem"
)

// recordLogger captures log lines per level for assertions.
type recordLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordLogger() *recordLogger {
	return &recordLogger{lines: make(map[string][]string)}
}

func (l *recordLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parts := []string{msg}
	for _, arg := range args {
		if s, ok := arg.(string); ok {
			parts = append(parts, s)
		}
	}
	l.lines[level] = append(l.lines[level], strings.Join(parts, " "))
}

func (l *recordLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *recordLogger) has(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.lines[level] {
		if strings.Contains(line, substr) {
			return true
		}
	}

	return false
}

func countCalls(t *testing.T, r *mem.Repo, prefix string) int {
	t.Helper()

	var total int
	for _, call := range r.Calls() {
		if strings.HasPrefix(call, prefix) {
			total++
		}
	}

	return total
}
