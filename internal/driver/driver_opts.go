package driver

import "time"

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		if tickLength > 0 {
			d.tickLength = tickLength
		}
	}
}

// WithManager adds m to the tick. name is only used in logs.
func WithManager(name string, m Manager) DriverOpt {
	return func(d *Driver) {
		d.managers = append(d.managers, namedManager{name: name, Manager: m})
	}
}
