// Package location resolves a best-effort coordinate for a capture session.
//
// Acquisition is a tiered fallback, modelled as an explicit state machine so
// each transition is independently testable:
//
//	CheckPermission → CachedFix → FreshFix → (Resolved | Fallback)
//	CheckPermission → Denied
//
// Terminal states are Resolved (a real fix), Fallback (the static default
// coordinate with a warning), and Denied (the only error outcome). The design
// trades accuracy for availability: absent a permission denial, a capture
// session is never blocked by GPS failure.
package location

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/travel-log/backend/internal/domain"
)

// DefaultFallback is the static fallback coordinate substituted when no live
// fix can be obtained: Jakarta's city center.
var DefaultFallback = domain.Coordinate{Latitude: -6.2088, Longitude: 106.8456}

// FallbackWarning is the non-blocking message surfaced alongside a fallback
// fix so the user knows the coordinate is an estimate, not a GPS reading.
const FallbackWarning = "GPS unavailable; using estimated location (Jakarta)"

// Accuracy selects the accuracy/power tradeoff for a fresh fix request.
type Accuracy int

const (
	// AccuracyBalanced bounds latency and battery cost; fresh fixes use this
	// rather than maximum precision.
	AccuracyBalanced Accuracy = iota
	// AccuracyHigh requests maximum precision. Unused by the capture flow but
	// part of the provider contract.
	AccuracyHigh
)

// Position is a coordinate with the time it was measured.
type Position struct {
	Coordinate domain.Coordinate
	Timestamp  time.Time
}

// PermissionChecker requests foreground location permission from the user.
type PermissionChecker interface {
	// RequestForeground returns true when permission is granted. An error
	// means the request itself failed and is treated as a denial.
	RequestForeground(ctx context.Context) (bool, error)
}

// Provider supplies device positions.
type Provider interface {
	// LastKnown returns a previously cached position, if any.
	// ok is false when no cached position exists; that is not an error.
	LastKnown(ctx context.Context) (pos Position, ok bool, err error)

	// Current measures a new position at the given accuracy.
	// May block until the device produces a fix or ctx expires.
	Current(ctx context.Context, acc Accuracy) (Position, error)
}

// State is one node of the acquisition state machine.
type State int

const (
	StateCheckPermission State = iota
	StateCachedFix
	StateFreshFix
	// Terminal states.
	StateResolved
	StateFallback
	StateDenied
)

// String returns the state name for logs and test failure messages.
func (s State) String() string {
	switch s {
	case StateCheckPermission:
		return "check-permission"
	case StateCachedFix:
		return "cached-fix"
	case StateFreshFix:
		return "fresh-fix"
	case StateResolved:
		return "resolved"
	case StateFallback:
		return "fallback"
	case StateDenied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the machine stops at this state.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateFallback || s == StateDenied
}

// Fix is the outcome of a successful acquisition. Callers always get a
// concrete coordinate; only Warning distinguishes a real fix from the static
// fallback.
type Fix struct {
	Coordinate domain.Coordinate
	// State is the terminal state that produced the coordinate:
	// StateResolved or StateFallback.
	State State
	// Warning is non-empty only for a fallback fix. It is informational and
	// never blocks the capture flow.
	Warning string
}

// Acquirer runs the tiered acquisition flow.
type Acquirer struct {
	perms    PermissionChecker
	provider Provider
	fallback domain.Coordinate
}

// NewAcquirer constructs an Acquirer using DefaultFallback as the static
// fallback coordinate.
func NewAcquirer(perms PermissionChecker, provider Provider) *Acquirer {
	return &Acquirer{perms: perms, provider: provider, fallback: DefaultFallback}
}

// Acquire resolves a coordinate for the current capture session.
//
// Returns domain.ErrPermissionDenied (wrapped) when the user refuses location
// access; no further tier runs after a denial. Every other failure mode ends
// in the static fallback, so a nil error always comes with a usable Fix.
func (a *Acquirer) Acquire(ctx context.Context) (Fix, error) {
	state := StateCheckPermission
	for !state.Terminal() {
		var fix Fix
		state, fix = a.step(ctx, state)
		if state == StateResolved || state == StateFallback {
			return fix, nil
		}
	}
	// Only StateDenied exits the loop without a fix.
	return Fix{}, fmt.Errorf("location.Acquirer.Acquire: %w", domain.ErrPermissionDenied)
}

// step executes one transition of the state machine and returns the next
// state, plus the Fix when the next state is terminal and successful.
func (a *Acquirer) step(ctx context.Context, s State) (State, Fix) {
	switch s {
	case StateCheckPermission:
		granted, err := a.perms.RequestForeground(ctx)
		if err != nil || !granted {
			return StateDenied, Fix{}
		}
		return StateCachedFix, Fix{}

	case StateCachedFix:
		// A stale cached fix beats the latency of a fresh one; the visit
		// timestamp, not the fix timestamp, records when the user was here.
		pos, ok, err := a.provider.LastKnown(ctx)
		if err == nil && ok && pos.Coordinate.Valid() {
			return StateResolved, Fix{Coordinate: pos.Coordinate, State: StateResolved}
		}
		return StateFreshFix, Fix{}

	case StateFreshFix:
		pos, err := a.provider.Current(ctx, AccuracyBalanced)
		if err == nil && pos.Coordinate.Valid() {
			return StateResolved, Fix{Coordinate: pos.Coordinate, State: StateResolved}
		}
		return StateFallback, Fix{
			Coordinate: a.fallback,
			State:      StateFallback,
			Warning:    FallbackWarning,
		}

	default:
		// Terminal states never reach step.
		return s, Fix{}
	}
}
