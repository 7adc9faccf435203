// Package recording captures the graph mutations of a reload run as an
// in-memory, replayable log grouped into frames.
package recording

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/google/uuid"
)

// Version is the log layout version stamped into every Header.
const Version = "1.0"

// Header describes a finished recording.
type Header struct {
	RunID       string
	Version     string
	Created     time.Time
	TotalFrames int
	TotalEvents int
	Start       int64 // time of the first frame
	End         int64 // time of the last frame
	Threshold   float64
}

// FrameMark indexes one frame: the position of its StepBegins event and the
// frame time.
type FrameMark struct {
	Index int
	Time  int64
}

// Recorder is a graph.Sink appending every event it sees. Finish turns it
// into a read-only Recording.
type Recorder struct {
	mu       sync.Mutex
	header   Header
	events   []graph.Event
	frames   []FrameMark
	finished bool
}

// NewRecorder returns an empty recorder. threshold is stored in the header
// for consumers that want to re-check proximity.
func NewRecorder(threshold float64) *Recorder {
	return &Recorder{
		header: Header{
			RunID:     uuid.NewString(),
			Version:   Version,
			Created:   time.Now().UTC(),
			Threshold: threshold,
		},
	}
}

// Emit implements graph.Sink. Events after Finish are dropped.
func (r *Recorder) Emit(e graph.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}
	if e.Kind == graph.StepBegins {
		if len(r.frames) == 0 {
			r.header.Start = e.Time
		}
		r.header.End = e.Time
		r.frames = append(r.frames, FrameMark{Index: len(r.events), Time: e.Time})
	}
	r.events = append(r.events, e)
}

// Finish seals the recorder and returns the Recording positioned at its start.
func (r *Recorder) Finish() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finished = true
	r.header.TotalFrames = len(r.frames)
	r.header.TotalEvents = len(r.events)
	return &Recording{
		header: r.header,
		events: r.events,
		frames: r.frames,
	}
}

// Recording is a finished, read-only mutation log with a replay position.
// The log is shared by every reader obtained through Replay; each reader has
// its own position.
type Recording struct {
	header Header
	events []graph.Event
	frames []FrameMark

	mu  sync.Mutex
	pos int
}

// Header returns the recording header.
func (r *Recording) Header() Header { return r.header }

// Len returns the number of events.
func (r *Recording) Len() int { return len(r.events) }

// Events returns a copy of every event.
func (r *Recording) Events() []graph.Event {
	out := make([]graph.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Frames returns a copy of the frame index.
func (r *Recording) Frames() []FrameMark {
	out := make([]FrameMark, len(r.frames))
	copy(out, r.frames)
	return out
}

// FrameEvents returns the events of frame i, its StepBegins included.
func (r *Recording) FrameEvents(i int) ([]graph.Event, error) {
	if i < 0 || i >= len(r.frames) {
		return nil, fmt.Errorf("frame index out of range: %d of %d", i, len(r.frames))
	}
	end := len(r.events)
	if i+1 < len(r.frames) {
		end = r.frames[i+1].Index
	}
	out := make([]graph.Event, end-r.frames[i].Index)
	copy(out, r.events[r.frames[i].Index:end])
	return out, nil
}

// Replay returns an independent reader over the same log, positioned at the
// start.
func (r *Recording) Replay() *Recording {
	return &Recording{header: r.header, events: r.events, frames: r.frames}
}

// HasNext reports whether Next has an event to return.
func (r *Recording) HasNext() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos < len(r.events)
}

// Next returns the event at the replay position and advances. It returns
// io.EOF at the end of the log.
func (r *Recording) Next() (graph.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.events) {
		return graph.Event{}, io.EOF
	}
	e := r.events[r.pos]
	r.pos++
	return e, nil
}

// Position returns the index of the next event Next will return.
func (r *Recording) Position() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

// SeekStart rewinds the replay position to the first event.
func (r *Recording) SeekStart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
}

// SeekFrame moves the replay position to the StepBegins event of frame i.
func (r *Recording) SeekFrame(i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= len(r.frames) {
		return fmt.Errorf("frame index out of range: %d of %d", i, len(r.frames))
	}
	r.pos = r.frames[i].Index
	return nil
}

// SeekToTime moves to the first frame whose time is at or after t and
// returns its index. Past the last frame it positions at the end of the log
// and returns the frame count.
func (r *Recording) SeekToTime(t int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.frames), func(i int) bool {
		return r.frames[i].Time >= t
	})
	if i == len(r.frames) {
		r.pos = len(r.events)
	} else {
		r.pos = r.frames[i].Index
	}
	return i
}
