package clock

import (
	"log/slog"
	"time"
)

const (
	DefaultZoneName = "Africa/Nairobi"
	DefaultOffset   = 3 * time.Hour
	fallbackAbbrev  = "EAT"
)

// Zone converts instants into the target wall-clock zone. It prefers the
// host zoneinfo and falls back to a fixed UTC offset when the named zone
// cannot be loaded. The fallback ignores any DST rules the zone may have.
type Zone struct {
	name    string
	offset  time.Duration
	loc     *time.Location
	fixed   *time.Location
	loadErr error
}

func LoadZone(name string, offset time.Duration, log *slog.Logger) *Zone {
	if name == "" {
		name = DefaultZoneName
	}
	z := &Zone{
		name:   name,
		offset: offset,
		fixed:  time.FixedZone(fallbackAbbrev, int(offset/time.Second)),
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		z.loadErr = err
		if log != nil {
			log.Warn("time zone unavailable, using fixed offset",
				"zone", name, "offset", offset.String(), "err", err)
		}
		return z
	}
	z.loc = loc
	return z
}

func (z *Zone) Name() string { return z.name }

func (z *Zone) Offset() time.Duration { return z.offset }

// Fallback reports whether the fixed-offset strategy is in use.
func (z *Zone) Fallback() bool { return z.loc == nil }

// In returns now as wall-clock time in the target zone.
func (z *Zone) In(now time.Time) time.Time {
	if t, ok := z.primary(now); ok {
		return t
	}
	return z.fallback(now)
}

func (z *Zone) primary(now time.Time) (time.Time, bool) {
	if z.loc == nil {
		return time.Time{}, false
	}
	return now.In(z.loc), true
}

func (z *Zone) fallback(now time.Time) time.Time {
	return now.UTC().In(z.fixed)
}
