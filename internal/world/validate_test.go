package world

import (
	"math"
	"testing"
)

func baseline(x, y, z, vx, vy, vz float64, ts int64) *PlayerState {
	return &PlayerState{
		X: Float(x), Y: Float(y), Z: Float(z),
		VX: Float(vx), VY: Float(vy), VZ: Float(vz),
		TS: Millis(ts),
	}
}

func TestCheckAcceptsReachableMove(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	// 5 m/s for 2 s: 10 m expected, 10.4 m claimed, within the 0.5 m
	// tolerance.
	prev := baseline(0, 0, 0, 5, 0, 0, 1000)
	f := Fields{X: Float(10.4), Y: Float(0), Z: Float(0), TS: Millis(3000)}

	out, flagged := v.Check(prev, f)
	if flagged {
		t.Fatalf("reachable move flagged")
	}
	if *out.X != 10.4 {
		t.Fatalf("fields altered without a flag: x=%v", *out.X)
	}
}

func TestCheckFlagsTeleport(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	prev := baseline(0, 0, 0, 5, 0, 0, 1000)
	f := Fields{
		X: Float(10.6), Y: Float(0), Z: Float(0),
		VX: Float(100), TS: Millis(3000),
	}

	out, flagged := v.Check(prev, f)
	if !flagged {
		t.Fatalf("10.6 m in 2 s at 5 m/s not flagged")
	}
	// Position reinstated, everything else from the update kept.
	if *out.X != 0 || *out.Y != 0 || *out.Z != 0 {
		t.Fatalf("position not reinstated: (%v, %v, %v)", *out.X, *out.Y, *out.Z)
	}
	if *out.VX != 100 {
		t.Fatalf("reported velocity dropped: vx=%v", *out.VX)
	}
	if *out.TS != 3000 {
		t.Fatalf("reported timestamp dropped: ts=%v", *out.TS)
	}
}

func TestCheckUsesStoredVelocityNotReported(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	// Stored velocity is zero. The client claims 100 m/s in the same
	// packet to excuse a 50 m jump; the projection must ignore it.
	prev := baseline(0, 0, 0, 0, 0, 0, 1000)
	f := Fields{X: Float(50), VX: Float(100), TS: Millis(1500)}

	if _, flagged := v.Check(prev, f); !flagged {
		t.Fatalf("jump excused by same-packet velocity")
	}
}

func TestCheckThreeDimensionalDisplacement(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	// |v| = sqrt(9+16) = 5 m/s, 1 s elapsed. Claimed displacement
	// sqrt(3²+4²) = 5 m: exactly expected.
	prev := baseline(0, 0, 0, 3, 4, 0, 0)
	f := Fields{X: Float(3), Y: Float(4), Z: Float(0), TS: Millis(1000)}

	if _, flagged := v.Check(prev, f); flagged {
		t.Fatalf("exact-speed diagonal move flagged")
	}

	// Slightly past tolerance on the diagonal.
	far := Fields{X: Float(3 * 1.2), Y: Float(4 * 1.2), Z: Float(0), TS: Millis(1000)}
	if _, flagged := v.Check(prev, far); !flagged {
		t.Fatalf("diagonal overshoot of %.2f m not flagged", math.Hypot(3*0.2, 4*0.2))
	}
}

func TestCheckSkipsNonPositiveDelta(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	prev := baseline(0, 0, 0, 0, 0, 0, 5000)

	// Same timestamp.
	if _, flagged := v.Check(prev, Fields{X: Float(999), TS: Millis(5000)}); flagged {
		t.Fatalf("zero-delta update judged")
	}
	// Timestamp going backwards.
	if _, flagged := v.Check(prev, Fields{X: Float(999), TS: Millis(4000)}); flagged {
		t.Fatalf("backwards-delta update judged")
	}
}

func TestCheckSkipsOversizedDelta(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	prev := baseline(0, 0, 0, 0, 0, 0, 0)

	// Exactly at the cap: skipped.
	if _, flagged := v.Check(prev, Fields{X: Float(999), TS: Millis(60_000)}); flagged {
		t.Fatalf("update at the delta cap judged")
	}
	// Just under the cap: judged and flagged.
	if _, flagged := v.Check(prev, Fields{X: Float(999), TS: Millis(59_999)}); !flagged {
		t.Fatalf("teleport just under the delta cap not flagged")
	}
}

func TestCheckSkipsWithoutBaseline(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	f := Fields{X: Float(1e6), TS: Millis(1000)}

	if _, flagged := v.Check(nil, f); flagged {
		t.Fatalf("nil baseline judged")
	}
	if _, flagged := v.Check(&PlayerState{}, f); flagged {
		t.Fatalf("empty baseline judged")
	}
	// Position present but no stored timestamp.
	noTS := &PlayerState{X: Float(0), Y: Float(0), Z: Float(0)}
	if _, flagged := v.Check(noTS, f); flagged {
		t.Fatalf("baseline without timestamp judged")
	}
}

func TestCheckSkipsPositionlessUpdate(t *testing.T) {
	v := NewValidator(DefaultTolerance, DefaultMaxDelta)
	prev := baseline(0, 0, 0, 0, 0, 0, 0)

	f := Fields{VX: Float(3), TS: Millis(1000)}
	out, flagged := v.Check(prev, f)
	if flagged {
		t.Fatalf("velocity-only update flagged")
	}
	if out.X != nil {
		t.Fatalf("fields grew a position")
	}
}
