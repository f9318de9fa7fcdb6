package world

import "math"

// Movement policy constants. Tolerance absorbs float drift and packet
// jitter; deltas outside (0, maxDelta] are not judged at all, so replayed
// or long-idle updates are never penalized.
const (
	DefaultTolerance = 0.5 // meters
	DefaultMaxDelta  = 60.0 // seconds
)

// Validator decides whether a reported position is reachable from the
// previous one. The projection uses the velocity stored before the
// update: a client cannot excuse a teleport by inflating velocity in the
// same packet.
type Validator struct {
	Tolerance float64 // meters
	MaxDelta  float64 // seconds
}

func NewValidator(tolerance, maxDelta float64) *Validator {
	return &Validator{Tolerance: tolerance, MaxDelta: maxDelta}
}

// Check validates the proposed fields against the previous state. When
// the movement is implausible it returns corrected fields — the previous
// position reinstated, everything else from the update kept — and true.
// Otherwise it returns the fields unchanged and false.
//
// The check only runs when there is a full baseline (previous position
// and timestamp) and the update carries both a position and a timestamp.
func (v *Validator) Check(prev *PlayerState, f Fields) (Fields, bool) {
	if prev == nil || prev.X == nil || prev.Y == nil || prev.Z == nil || prev.TS == nil {
		return f, false
	}
	if f.TS == nil || !f.HasPosition() {
		return f, false
	}

	dt := float64(*f.TS-*prev.TS) / 1000.0
	if dt <= 0 || dt >= v.MaxDelta {
		return f, false
	}

	// Expected displacement from the previously claimed velocity.
	vx, vy, vz := deref(prev.VX), deref(prev.VY), deref(prev.VZ)
	expected := math.Sqrt(vx*vx+vy*vy+vz*vz) * dt

	// Actual displacement; absent axes fall back to the previous value.
	dx := fallback(f.X, *prev.X) - *prev.X
	dy := fallback(f.Y, *prev.Y) - *prev.Y
	dz := fallback(f.Z, *prev.Z) - *prev.Z
	actual := math.Sqrt(dx*dx + dy*dy + dz*dz)

	if actual <= expected+v.Tolerance {
		return f, false
	}

	corrected := f
	corrected.X = copyFloat(prev.X)
	corrected.Y = copyFloat(prev.Y)
	corrected.Z = copyFloat(prev.Z)
	return corrected, true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func fallback(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
