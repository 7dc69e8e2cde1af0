// Package timeoutresolver picks the applicable handshake/idle/overall
// timeouts for a role from the run's timeout policy.
package timeoutresolver

import (
	"fmt"
	"time"
)

// Policy carries the default and planner timeout 3-tuples sourced from
// configuration, plus the shared handshake timeout.
type Policy struct {
	HandshakeTimeout time.Duration

	DefaultIdle    time.Duration
	DefaultOverall time.Duration

	PlannerIdle    time.Duration
	PlannerOverall time.Duration
}

// Timeouts is the resolved 3-tuple handed to TurnRunner for one turn.
type Timeouts struct {
	Handshake time.Duration
	Idle      time.Duration
	Overall   time.Duration
}

// Resolve selects planner or default timeouts based on timeoutPolicy
// ("planner" or anything else), and validates the resulting bounds:
// 1s <= idle <= overall <= 3600s; handshake defaults to 15s if unset.
func Resolve(policy Policy, timeoutPolicy string) (Timeouts, error) {
	handshake := policy.HandshakeTimeout
	if handshake <= 0 {
		handshake = 15 * time.Second
	}

	idle, overall := policy.DefaultIdle, policy.DefaultOverall
	if timeoutPolicy == "planner" {
		idle, overall = policy.PlannerIdle, policy.PlannerOverall
	}

	if err := validate(idle, overall); err != nil {
		return Timeouts{}, err
	}

	return Timeouts{Handshake: handshake, Idle: idle, Overall: overall}, nil
}

func validate(idle, overall time.Duration) error {
	const (
		minBound = 1 * time.Second
		maxBound = 3600 * time.Second
	)
	if idle < minBound {
		return fmt.Errorf("timeoutresolver: idle timeout %s below minimum %s", idle, minBound)
	}
	if overall > maxBound {
		return fmt.Errorf("timeoutresolver: overall timeout %s above maximum %s", overall, maxBound)
	}
	if idle > overall {
		return fmt.Errorf("timeoutresolver: idle timeout %s exceeds overall timeout %s", idle, overall)
	}
	return nil
}
