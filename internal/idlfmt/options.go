package idlfmt

import "github.com/fatih/color"

// ReportOpts configures the instruction report.
type ReportOpts struct {
	NamesOnly bool
	Color     bool
}

type palette struct {
	heading *color.Color
	name    *color.Color
	muted   *color.Color
}

// newPalette returns colors forced on or off regardless of the global
// color.NoColor detection, so output written to a buffer stays predictable.
func newPalette(enabled bool) palette {
	p := palette{
		heading: color.New(color.Bold),
		name:    color.New(color.FgCyan, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.heading, p.name, p.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
