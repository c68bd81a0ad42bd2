package recurrence

import "time"

// ZoneSource resolves named time zones. The engine never touches the system
// zone database directly, so tests can pin deterministic zone rules.
type ZoneSource interface {
	Zone(name string) (*time.Location, error)
}

// SystemZones resolves zones through the process tzdata via
// time.LoadLocation. This is the default ZoneSource.
type SystemZones struct{}

func (SystemZones) Zone(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}
