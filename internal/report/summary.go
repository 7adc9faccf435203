// Package report derives contact statistics from a recording and renders
// them as an HTML timeline or a PNG trajectory plot.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/recording"
)

// FrameStat is the graph size at the end of one frame.
type FrameStat struct {
	Time  int64
	Nodes int
	Edges int
}

// Contact aggregates every frame in which two entities were linked.
type Contact struct {
	ID          string
	A, B        string
	First, Last int64 // times of the first and last frame in contact
	Frames      int   // frames that ended with the edge present
	Episodes    int   // number of times the edge was created
	MinDistance float64
}

// Summary is the contact report of one run.
type Summary struct {
	RunID     string
	Threshold float64
	Frames    []FrameStat
	Contacts  []Contact // by First, then ID
	PeakNodes int
	PeakEdges int
}

// Summarize replays rec onto a mirror graph and collects frame and contact
// statistics. rec's own replay position is not used.
func Summarize(rec *recording.Recording) (*Summary, error) {
	h := rec.Header()
	s := &Summary{RunID: h.RunID, Threshold: h.Threshold}
	contacts := map[string]*Contact{}
	mirror := graph.New(nil)

	endFrame := func() {
		st := FrameStat{Time: mirror.Time(), Nodes: mirror.NodeCount(), Edges: mirror.EdgeCount()}
		s.Frames = append(s.Frames, st)
		s.PeakNodes = max(s.PeakNodes, st.Nodes)
		s.PeakEdges = max(s.PeakEdges, st.Edges)
		for _, e := range mirror.Edges() {
			c := contacts[e.ID]
			if c.Frames == 0 {
				c.First = st.Time
			}
			c.Last = st.Time
			c.Frames++
			c.MinDistance = math.Min(c.MinDistance, e.Distance)
		}
	}

	r := rec.Replay()
	started := false
	for r.HasNext() {
		e, err := r.Next()
		if err != nil {
			return nil, err
		}
		if e.Kind == graph.StepBegins {
			if started {
				endFrame()
			}
			started = true
		}
		if err := mirror.Apply(e); err != nil {
			return nil, fmt.Errorf("replay %s: %w", e, err)
		}
		if e.Kind == graph.EdgeAdded {
			c, ok := contacts[e.ID]
			if !ok {
				c = &Contact{ID: e.ID, A: e.A, B: e.B, MinDistance: math.Inf(1)}
				contacts[e.ID] = c
			}
			c.Episodes++
		}
	}
	if started {
		endFrame()
	}

	s.Contacts = make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		s.Contacts = append(s.Contacts, *c)
	}
	sort.Slice(s.Contacts, func(i, j int) bool {
		if s.Contacts[i].First != s.Contacts[j].First {
			return s.Contacts[i].First < s.Contacts[j].First
		}
		return s.Contacts[i].ID < s.Contacts[j].ID
	})
	return s, nil
}

// sortContacts orders by frames in contact, most first, then by ID.
func sortContacts(cs []Contact) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Frames != cs[j].Frames {
			return cs[i].Frames > cs[j].Frames
		}
		return cs[i].ID < cs[j].ID
	})
}
