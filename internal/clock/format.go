package clock

import (
	"fmt"
	"time"
)

// Format selects 12-hour or 24-hour rendering.
type Format string

const (
	Format24 Format = "24"
	Format12 Format = "12"
)

func (f Format) Valid() bool { return f == Format24 || f == Format12 }

func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid time format %q: use \"12\" or \"24\"", s)
	}
	return f, nil
}

// FormatTime renders hours, minutes and seconds of t. Anything other than
// Format12 renders as 24-hour.
func FormatTime(t time.Time, f Format) string {
	h, m, s := t.Clock()
	if f != Format12 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d:%02d %s", h, m, s, suffix)
}
