package forcefield

import "math"

// LJ returns the Lennard-Jones energy and the radial force magnitude at
// separation r. A positive force is repulsive.
func LJ(sigma, epsilon, r float64) (u, f float64) {
	sr2 := sigma * sigma / (r * r)
	sr6 := sr2 * sr2 * sr2
	sr12 := sr6 * sr6
	u = 4 * epsilon * (sr12 - sr6)
	f = 24 * epsilon / r * (2*sr12 - sr6)
	return u, f
}

// MinimumEnergyDistance is 2^(1/6) σ, where the LJ force vanishes.
func MinimumEnergyDistance(sigma float64) float64 {
	return math.Pow(2, 1.0/6.0) * sigma
}

// Mix combines two LJ parameter sets with the Lorentz-Berthelot rules.
func Mix(sigmaI, epsI, sigmaJ, epsJ float64) (sigma, epsilon float64) {
	return 0.5 * (sigmaI + sigmaJ), math.Sqrt(epsI * epsJ)
}

type pairParams struct {
	sigma   float64
	epsilon float64
	// shift is U(rc), subtracted so the truncated potential is continuous.
	shift float64
}

func (p pairParams) eval(r float64) (float64, float64) {
	u, f := LJ(p.sigma, p.epsilon, r)
	return u - p.shift, f
}
