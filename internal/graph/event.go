package graph

import "fmt"

// EventKind identifies one kind of graph mutation.
type EventKind uint8

const (
	StepBegins   EventKind = iota + 1 // frame boundary at Event.Time
	NodeAdded                         // node Event.ID created at Event.Pos
	NodeRemoved                       // node Event.ID destroyed
	NodeMoved                         // node Event.ID position set to Event.Pos
	EdgeAdded                         // edge Event.ID created between Event.A and Event.B
	EdgeRemoved                       // edge Event.ID destroyed
	EdgeDistance                      // edge Event.ID distance set to Event.Distance
)

var eventKindNames = map[EventKind]string{
	StepBegins:   "step",
	NodeAdded:    "node+",
	NodeRemoved:  "node-",
	NodeMoved:    "node~",
	EdgeAdded:    "edge+",
	EdgeRemoved:  "edge-",
	EdgeDistance: "edge~",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one recorded graph mutation. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind     EventKind
	Time     int64
	ID       string
	A        string
	B        string
	Pos      Position
	Distance float64
}

func (e Event) String() string {
	switch e.Kind {
	case StepBegins:
		return fmt.Sprintf("%s t=%d", e.Kind, e.Time)
	case NodeAdded, NodeMoved:
		return fmt.Sprintf("%s %s (%g, %g)", e.Kind, e.ID, e.Pos.X, e.Pos.Y)
	case EdgeAdded:
		return fmt.Sprintf("%s %s [%s %s]", e.Kind, e.ID, e.A, e.B)
	case EdgeDistance:
		return fmt.Sprintf("%s %s d=%g", e.Kind, e.ID, e.Distance)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.ID)
	}
}

// Sink observes graph mutations in the order they happen.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})
