package lumibear

import "lumibear/internal/config"

// HexColor returns the RRGGBB part of a stored "#RRGGBBAA" color: the first
// character is dropped and the next six kept. Short input yields what exists.
func HexColor(stored string) string {
	if len(stored) <= 1 {
		return ""
	}
	s := stored[1:]
	if len(s) > 6 {
		s = s[:6]
	}
	return s
}

// Palette holds the stored colors a panel works with.
type Palette struct {
	Primary string
	Rotate1 string
	Rotate2 string
}

// PaletteFromConfig converts the [colors] section.
func PaletteFromConfig(cfg config.ColorsConf) Palette {
	return Palette{
		Primary: cfg.Primary,
		Rotate1: cfg.Rotate1,
		Rotate2: cfg.Rotate2,
	}
}

// fill replaces an empty color payload with the stored defaults.
func (p Palette) fill(cmd Command) Command {
	if cmd.Payload != "" {
		return cmd
	}
	switch {
	case cmd.Op == OpColor:
		return Color(HexColor(p.Primary))
	case cmd.Op.TwoColor():
		return pair(cmd.Op, HexColor(p.Rotate1), HexColor(p.Rotate2))
	}
	return cmd
}
