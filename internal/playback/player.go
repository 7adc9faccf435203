// Package playback paces a finished recording into a renderer.
package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/monitoring"
	"github.com/banshee-data/contact.report/internal/recording"
	"github.com/banshee-data/contact.report/internal/timeutil"
)

// DefaultFrameDelay is the pause between two frames.
const DefaultFrameDelay = 50 * time.Millisecond

// Resetter is implemented by sinks that hold replayed state. A looping
// player resets the sink before every pass after the first.
type Resetter interface {
	Reset()
}

// Player replays a recording frame by frame.
type Player struct {
	Clock      timeutil.Clock // RealClock when nil
	FrameDelay time.Duration  // pause before every frame but the first
	Loop       bool           // restart from the beginning until cancelled
}

// Stats describes what a Play call delivered.
type Stats struct {
	Passes int
	Frames int
	Events int
}

// Play streams rec into sink. It works on its own reader, so cancelling
// leaves rec and every other reader untouched. Play returns ctx.Err() when
// cancelled, nil when a non-looping pass completes.
func (p *Player) Play(ctx context.Context, rec *recording.Recording, sink graph.Sink) (Stats, error) {
	var st Stats
	if rec.Len() == 0 {
		return st, nil
	}
	r := rec.Replay()
	for {
		if st.Passes > 0 {
			if rs, ok := sink.(Resetter); ok {
				rs.Reset()
			}
			r.SeekStart()
		}
		if err := p.pass(ctx, r, sink, &st); err != nil {
			monitoring.Logf("[playback] stopped after %d frames: %v", st.Frames, err)
			return st, err
		}
		st.Passes++
		if !p.Loop {
			return st, nil
		}
	}
}

func (p *Player) pass(ctx context.Context, r *recording.Recording, sink graph.Sink, st *Stats) error {
	first := true
	for r.HasNext() {
		e, err := r.Next()
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		if e.Kind == graph.StepBegins {
			if !first {
				if err := p.wait(ctx); err != nil {
					return err
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}
			first = false
			st.Frames++
		}
		sink.Emit(e)
		st.Events++
	}
	return nil
}

func (p *Player) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || p.FrameDelay <= 0 {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock().After(p.FrameDelay):
		return nil
	}
}

func (p *Player) clock() timeutil.Clock {
	if p.Clock == nil {
		return timeutil.RealClock{}
	}
	return p.Clock
}

// MirrorSink rebuilds the recorded graph as events arrive, the way a
// renderer would. Apply errors are kept, not returned, because Sink has no
// error path.
type MirrorSink struct {
	Graph *graph.Graph
	Err   error
}

// NewMirrorSink returns a sink over an empty graph.
func NewMirrorSink() *MirrorSink {
	return &MirrorSink{Graph: graph.New(nil)}
}

// Emit implements graph.Sink.
func (m *MirrorSink) Emit(e graph.Event) {
	if m.Err != nil {
		return
	}
	if err := m.Graph.Apply(e); err != nil {
		m.Err = fmt.Errorf("apply %s: %w", e, err)
	}
}

// Reset implements Resetter.
func (m *MirrorSink) Reset() {
	m.Graph.Clear()
	m.Err = nil
}
