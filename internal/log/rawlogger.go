package log

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

// RawLogger records inbound protocol lines verbatim, one per output line.
type RawLogger interface {
	Log(conn string, line []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If w is nil the logger drops everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes a timestamped, quoted copy of line tagged with the connection id.
// Quoting keeps control bytes from a misbehaving peer out of the log file.
func (r *rawLogger) Log(conn string, line []byte) {
	if r.w == nil {
		return
	}
	out := fmt.Sprintf("%s %s %d bytes: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		conn,
		len(line),
		strconv.Quote(string(line)))

	r.mu.Lock()
	_, _ = io.WriteString(r.w, out)
	r.mu.Unlock()
}
