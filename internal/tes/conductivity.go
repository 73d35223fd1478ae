package tes

// ConductivityProfile holds the effective conductivity of each of the N-1
// layer interfaces in W/(m K).
type ConductivityProfile []float64

// SwitchConductivity picks kLow where the previous state is stably stratified
// (upper layer at least as warm as the one below) and kHigh where it is
// inverted, approximating buoyant mixing within one step.
func SwitchConductivity(prev []float64, kLow, kHigh float64) ConductivityProfile {
	if len(prev) < 2 {
		return ConductivityProfile{}
	}
	k := make(ConductivityProfile, len(prev)-1)
	for i := range k {
		if prev[i] < prev[i+1] {
			k[i] = kHigh
		} else {
			k[i] = kLow
		}
	}
	return k
}

// Mixing counts the interfaces currently treated as convective.
func (k ConductivityProfile) Mixing(kHigh float64) int {
	count := 0
	for _, v := range k {
		if v == kHigh {
			count++
		}
	}
	return count
}
