package trace

import (
	"fmt"
	"strings"
)

// Level controls how much is written.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"off", "error", "info", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|info|debug)", s)
}

// Allows reports whether an event of kind and scope passes l.
func (l Level) Allows(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindError:
		return true
	case l == LevelError:
		return false
	case l == LevelInfo:
		return scope <= ScopeStage
	}
	return true
}
