package drive

// Ramp advances prev one cycle toward target, changing by at most accel raw
// units while the magnitude is growing and decel while it is shrinking.
// Arrival is exact: the last step lands on target rather than oscillating
// around it, so a motor ramping to neutral reaches exactly zero.
//
// Ramp is unconditional; the interlock's neutral-seeking is this same
// function applied with the decel rate and a target of zero.
func Ramp(prev, target, accel, decel int) int {
	if prev == target {
		return prev
	}

	rate := decel
	if magnitudeGrowing(prev, target) {
		rate = accel
	}

	step := target - prev
	if step > rate {
		step = rate
	} else if step < -rate {
		step = -rate
	}
	return prev + step
}

// magnitudeGrowing reports whether stepping from prev toward target moves
// away from neutral. A target on the opposite side of zero shrinks the
// magnitude first, so it ramps at the decel rate until neutral is crossed.
func magnitudeGrowing(prev, target int) bool {
	if abs(target) <= abs(prev) {
		return false
	}
	return prev == 0 || (prev > 0) == (target > 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
