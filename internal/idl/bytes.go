package idl

import (
	"fmt"

	"fortio.org/safecast"
	json "github.com/goccy/go-json"
)

// Bytes is a byte sequence encoded as a JSON array of integers.
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected array of bytes: %w", err)
	}
	out := make(Bytes, 0, len(raw))
	for i, n := range raw {
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("byte %d: %w", i, err)
		}
		u, err := safecast.Conv[uint8](v)
		if err != nil {
			return fmt.Errorf("byte %d: %w", i, err)
		}
		out = append(out, u)
	}
	*b = out
	return nil
}
