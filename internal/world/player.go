package world

// PlayerState holds the authoritative kinematic snapshot for one player.
// All fields are optional: nil means the client has never reported the
// field. Identity (username, address, liveness) lives in the session
// registry, not here.
type PlayerState struct {
	X, Y, Z    *float64 // position, meters
	RX, RY, RZ *float64 // orientation, Euler degrees
	VX, VY, VZ *float64 // velocity, m/s
	TS         *int64   // last client-reported timestamp, millis
	Action     *string
}

// Fields is one partial state report. Absent (nil) fields leave the
// stored value untouched when applied.
type Fields struct {
	X, Y, Z    *float64
	RX, RY, RZ *float64
	VX, VY, VZ *float64
	TS         *int64
	Action     *string
}

// HasPosition reports whether the update carries any position axis.
func (f Fields) HasPosition() bool {
	return f.X != nil || f.Y != nil || f.Z != nil
}

// Clone returns a deep copy. Snapshot consumers get copies so that later
// mutation under the hub lock cannot race a marshal in flight.
func (p *PlayerState) Clone() PlayerState {
	c := PlayerState{}
	c.X = copyFloat(p.X)
	c.Y = copyFloat(p.Y)
	c.Z = copyFloat(p.Z)
	c.RX = copyFloat(p.RX)
	c.RY = copyFloat(p.RY)
	c.RZ = copyFloat(p.RZ)
	c.VX = copyFloat(p.VX)
	c.VY = copyFloat(p.VY)
	c.VZ = copyFloat(p.VZ)
	if p.TS != nil {
		ts := *p.TS
		c.TS = &ts
	}
	if p.Action != nil {
		a := *p.Action
		c.Action = &a
	}
	return c
}

// merge overwrites only the fields present in f.
func (p *PlayerState) merge(f Fields) {
	if f.X != nil {
		p.X = copyFloat(f.X)
	}
	if f.Y != nil {
		p.Y = copyFloat(f.Y)
	}
	if f.Z != nil {
		p.Z = copyFloat(f.Z)
	}
	if f.RX != nil {
		p.RX = copyFloat(f.RX)
	}
	if f.RY != nil {
		p.RY = copyFloat(f.RY)
	}
	if f.RZ != nil {
		p.RZ = copyFloat(f.RZ)
	}
	if f.VX != nil {
		p.VX = copyFloat(f.VX)
	}
	if f.VY != nil {
		p.VY = copyFloat(f.VY)
	}
	if f.VZ != nil {
		p.VZ = copyFloat(f.VZ)
	}
	if f.TS != nil {
		ts := *f.TS
		p.TS = &ts
	}
	if f.Action != nil {
		a := *f.Action
		p.Action = &a
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// Float returns a pointer to v, for building Fields literals.
func Float(v float64) *float64 { return &v }

// Millis returns a pointer to a millisecond timestamp.
func Millis(v int64) *int64 { return &v }
