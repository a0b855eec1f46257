package drive

// State is the persistent drive state: the speed most recently sent to each
// motor and the interlock flag. One State is created at startup with both
// motors at neutral and lives for the lifetime of its control loop; it is
// passed in explicitly so tests can inject and inspect it.
type State struct {
	LeftSpeed  int
	RightSpeed int
	Resyncing  bool
}

// AtNeutral reports whether both motors are stopped.
func (s *State) AtNeutral() bool {
	return s.LeftSpeed == 0 && s.RightSpeed == 0
}

// Interlock arbitrates direction changes. It has two states: running, where
// new targets are admitted and both speeds advance toward the committed
// target, and resyncing, where incoming targets are ignored and both motors
// decelerate to neutral.
//
// Any difference between a newly computed target and the last committed one
// triggers a resync while the vehicle is moving, whether or not the change
// reverses anything. When both motors already rest at neutral the new target
// is admitted directly; the stop-first pass would be a no-op from there.
//
// Core invariant: after cold start, a motor's speed never changes sign
// without an intervening cycle at exactly zero.
type Interlock struct {
	state     *State
	committed Target
	accel     int
	decel     int
}

// NewInterlock wires an interlock to the given state. Both ramp rates must
// be positive; Settings.Tuning guarantees that.
func NewInterlock(state *State, t Tuning) *Interlock {
	return &Interlock{
		state: state,
		accel: t.Accel,
		decel: t.Decel,
	}
}

// Retune updates the ramp rates after a live settings change. The committed
// target and current speeds are untouched.
func (il *Interlock) Retune(t Tuning) {
	il.accel = t.Accel
	il.decel = t.Decel
}

// Resyncing reports whether a stop-and-resync episode is in progress.
func (il *Interlock) Resyncing() bool {
	return il.state.Resyncing
}

// Step advances both motor speeds by one control cycle and returns the
// speeds to emit. During a resync the incoming target is ignored, both
// motors seek neutral at the decel rate, and the episode ends only once both
// have arrived; a motor reaching neutral early holds zero until its sibling
// does. Each cycle closes the distance to neutral by at least one ramp step,
// so a resync always terminates.
func (il *Interlock) Step(target Target) (left, right int) {
	st := il.state

	if !st.Resyncing && target != il.committed {
		if st.AtNeutral() {
			il.committed = target
		} else {
			st.Resyncing = true
		}
	}

	if st.Resyncing {
		st.LeftSpeed = Ramp(st.LeftSpeed, 0, il.decel, il.decel)
		st.RightSpeed = Ramp(st.RightSpeed, 0, il.decel, il.decel)
		if st.AtNeutral() {
			st.Resyncing = false
			il.committed = Target{}
		}
		return st.LeftSpeed, st.RightSpeed
	}

	st.LeftSpeed = Ramp(st.LeftSpeed, il.committed.Left, il.accel, il.decel)
	st.RightSpeed = Ramp(st.RightSpeed, il.committed.Right, il.accel, il.decel)
	return st.LeftSpeed, st.RightSpeed
}
