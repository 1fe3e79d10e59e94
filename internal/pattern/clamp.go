package pattern

// Clamp bounds a requested dance size into [minMM, maxMM]. It is total over
// integers: zero and negative requests clamp up to minMM.
func Clamp(requestedMM, minMM, maxMM int) int {
	if requestedMM < minMM {
		return minMM
	}
	if requestedMM > maxMM {
		return maxMM
	}
	return requestedMM
}
