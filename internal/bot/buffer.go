package bot

import (
	"sync"
	"time"
)

// maxLogLines bounds the terminal buffer; older lines are dropped.
const maxLogLines = 1000

// LogLine is one timestamped terminal entry.
type LogLine struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Level     string `json:"level"`
}

// LogBuffer is a bounded, concurrency-safe ring of terminal output lines.
// The bot's stdout/stderr drains and the lifecycle notices all land here.
type LogBuffer struct {
	mu    sync.Mutex
	lines []LogLine
}

// NewLogBuffer creates an empty buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Append adds a line, evicting the oldest when the buffer is full.
func (b *LogBuffer) Append(text, level string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, LogLine{
		Timestamp: time.Now().Format("15:04:05"),
		Text:      text,
		Level:     level,
	})
	if len(b.lines) > maxLogLines {
		b.lines = b.lines[len(b.lines)-maxLogLines:]
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *LogBuffer) Lines() []LogLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
