package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

var dedup = &deduplicator{
	flushDelay: 2 * time.Second,
}

// deduplicator collapses identical consecutive log lines into one line with
// a repeat count, so a provider failing on every request does not flood the
// log with the same message.
type deduplicator struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

func (d *deduplicator) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		log.Print(d.lastMsg)
	} else {
		log.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}

func (d *deduplicator) record(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if msg != d.lastMsg {
		d.flush()
		d.lastMsg = msg
		d.count = 0
	}
	d.count++

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.flush()
	})
}

func Dedup(format string, args ...any) {
	dedup.record(fmt.Sprintf(format, args...))
}

// Upstream logs a provider call failure with its full detail. Client-facing
// responses carry only generic messages; this is where the real error lands.
func Upstream(provider string, err error) {
	Dedup("%s upstream error: %v", provider, err)
}
