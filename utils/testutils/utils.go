// Package testutils provides assertions and log capture shared by the tests
// of the layout packages.
package testutils

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ariya/phantomjs-sub051/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("expected\n%v\n got \n%v\ndiff (-exp +got):\n%s", exp, got, cmp.Diff(exp, got, exportAll))
	}
}

// Diff returns a human readable difference between [a] and [b],
// or an empty string if they are deeply equal.
func Diff(a, b interface{}) string {
	return cmp.Diff(a, b, exportAll)
}

// LogCapture stores the messages emitted by the package loggers
// while it is active.
type LogCapture struct {
	logs    *observer.ObservedLogs
	restore func()
}

// CaptureLogs redirects [logger.ProgressLogger] and [logger.WarningLogger]
// until one of the Assert methods is called. Only warnings and errors are kept.
func CaptureLogs() *LogCapture {
	core, logs := observer.New(zapcore.WarnLevel)
	return &LogCapture{logs: logs, restore: logger.UseCore(core)}
}

// Logs restores the loggers and returns the captured messages.
func (c *LogCapture) Logs() []string {
	c.restore()
	var out []string
	for _, entry := range c.logs.All() {
		out = append(out, entry.Message)
	}
	return out
}

func (c *LogCapture) AssertNoLogs(t *testing.T) {
	t.Helper()
	if l := c.Logs(); len(l) != 0 {
		t.Fatalf("expected no logs, got (%d): \n%s", len(l), strings.Join(l, "\n"))
	}
}

// AssertLogs checks that exactly [n] messages were emitted.
func (c *LogCapture) AssertLogs(t *testing.T, n int) []string {
	t.Helper()
	l := c.Logs()
	if len(l) != n {
		t.Fatalf("expected %d logs, got (%d): \n%s", n, len(l), strings.Join(l, "\n"))
	}
	return l
}

// IndentLogger prints nested debug traces.
type IndentLogger struct {
	level int
}

func (il *IndentLogger) LineWithIndent(format string, args ...interface{}) {
	il.Line(format, args...)
	il.level++
}

func (il *IndentLogger) LineWithDedent(format string, args ...interface{}) {
	il.level--
	if il.level < 0 {
		il.level = 0
	}
	if format != "" {
		il.Line(format, args...)
	}
}

func (il IndentLogger) Line(format string, args ...interface{}) {
	fmt.Println(strings.Repeat(" ", il.level*2) + fmt.Sprintf(format, args...))
}
