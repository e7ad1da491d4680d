package ui

// Status is the state of one program in a workspace build.
type Status uint8

const (
	StatusQueued Status = iota
	StatusBuilding
	StatusWriting
	StatusDone
	StatusCached
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusBuilding:
		return "building"
	case StatusWriting:
		return "writing"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusError:
		return "error"
	}
	return ""
}

func (s Status) finished() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports a status change for Program. An empty Program updates the
// header note instead.
type Event struct {
	Program string
	Status  Status
	Note    string
}

// Sink receives build events.
type Sink interface {
	Report(Event)
}

// ChannelSink forwards events to Ch.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Report(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// NopSink drops events.
type NopSink struct{}

func (NopSink) Report(Event) {}
