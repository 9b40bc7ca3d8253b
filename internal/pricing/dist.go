package pricing

import "math"

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda). Direct evaluation is
// fine for the small k and lambda ranges the threshold market uses; no
// log-space stabilization is needed at this scale.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	factorial := 1.0
	for i := 2; i <= k; i++ {
		factorial *= float64(i)
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda) by summing the mass
// function. A negative k yields 0.
func PoissonCDF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	cdf := 0.0
	for i := 0; i <= k; i++ {
		cdf += PoissonPMF(i, lambda)
	}
	return math.Min(1, cdf)
}

// Abramowitz & Stegun 7.1.26 coefficients for the error function.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// erf evaluates the error function with the Abramowitz-Stegun 5-term
// polynomial approximation, accurate to about 1e-7.
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}
	t := 1.0 / (1.0 + erfP*x)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)
	return sign * y
}

// NormalCDF returns P(X <= x) for X ~ N(mu, sigma^2).
func NormalCDF(x, mu, sigma float64) float64 {
	if sigma <= 0 {
		if x < mu {
			return 0
		}
		return 1
	}
	return 0.5 * (1 + erf((x-mu)/(sigma*math.Sqrt2)))
}
