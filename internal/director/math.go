package director

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}

// interpTo moves current towards target at a rate proportional to the
// remaining distance, scaled by deltaTime so convergence is frame-rate
// independent. A speed <= 0 snaps straight to the target.
func interpTo(current, target, deltaTime, speed float64) float64 {
	if speed <= 0 {
		return target
	}

	distance := target - current

	if distance*distance < 1e-8 {
		return target
	}

	return current + distance*clamp(deltaTime*speed, 0, 1)
}

// positionFactor normalises a race position into +1 (first) .. -1 (last).
func positionFactor(position, numRacers int) float64 {
	if numRacers <= 1 {
		return 0
	}

	return 1.0 - (2.0 * float64(position-1) / float64(numRacers-1))
}
