package trace

import "time"

// Kind is what happened.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindNote
	KindError
)

var kindNames = [...]string{KindBegin: "begin", KindEnd: "end", KindNote: "note", KindError: "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how coarse an event is; lower is coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI invocation
	ScopeStage                    // extract, build, convert, write
	ScopeItem                     // one program, file or instruction
)

var scopeNames = [...]string{ScopeCommand: "command", ScopeStage: "stage", ScopeItem: "item"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record of the log. Span and Parent are zero outside spans.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64
	Parent uint64
	Name   string
	Msg    string
	Attrs  map[string]string
}
