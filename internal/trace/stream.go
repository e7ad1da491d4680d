package trace

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Stream writes events as they arrive, buffered until Flush or Close.
type Stream struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	start  time.Time
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{out: w, buf: bufio.NewWriter(w), level: level, format: format, start: time.Now()}
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Emit(ev *Event) {
	if ev == nil || !s.level.Allows(ev.Kind, ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.format == FormatNDJSON {
		s.writeJSON(ev)
	} else {
		s.writeText(ev)
	}
	// ошибки сразу на диск, чтобы не потерять их при падении
	if ev.Kind == KindError {
		_ = s.buf.Flush()
	}
}

func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Flush()
}

func (s *Stream) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if c, ok := s.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// writeText renders "+elapsed scope kind name: msg k=v" with items indented.
func (s *Stream) writeText(ev *Event) {
	elapsed := ev.Time.Sub(s.start)
	fmt.Fprintf(s.buf, "+%9.3fms %-7s ", float64(elapsed.Microseconds())/1000, ev.Scope)
	if ev.Scope == ScopeItem {
		s.buf.WriteString("  ")
	}
	s.buf.WriteString(ev.Kind.String())
	s.buf.WriteByte(' ')
	s.buf.WriteString(ev.Name)
	if ev.Msg != "" {
		s.buf.WriteString(": ")
		s.buf.WriteString(strings.ReplaceAll(ev.Msg, "\n", " | "))
	}
	for _, k := range sortedKeys(ev.Attrs) {
		fmt.Fprintf(s.buf, " %s=%s", k, ev.Attrs[k])
	}
	s.buf.WriteByte('\n')
}

type jsonRecord struct {
	TS        string            `json:"ts"`
	ElapsedMS float64           `json:"elapsed_ms"`
	Seq       uint64            `json:"seq"`
	Event     string            `json:"event"`
	Scope     string            `json:"scope"`
	Span      uint64            `json:"span,omitempty"`
	Parent    uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Msg       string            `json:"msg,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

func (s *Stream) writeJSON(ev *Event) {
	rec := jsonRecord{
		TS:        ev.Time.UTC().Format(time.RFC3339Nano),
		ElapsedMS: float64(ev.Time.Sub(s.start).Microseconds()) / 1000,
		Seq:       ev.Seq,
		Event:     ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Span:      ev.Span,
		Parent:    ev.Parent,
		Name:      ev.Name,
		Msg:       ev.Msg,
		Attrs:     ev.Attrs,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		data, _ = json.Marshal(jsonRecord{Seq: ev.Seq, Event: KindError.String(), Name: "trace", Msg: err.Error()})
	}
	s.buf.Write(data)
	s.buf.WriteByte('\n')
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
