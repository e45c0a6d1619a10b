package chickenfarm

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Weight models for broiler growth curves, after Topal & Bolukbasi (2008),
// "Comparison of Nonlinear Growth Curve Models in Broiler Chickens".
const (
	ModelGompertz = "GOMPERTZ"
	ModelWeibull  = "WEIBULL"
	ModelMMF      = "MMF"
	// ModelRNG marks weights drawn uniformly for chickens too old for the
	// growth curves.
	ModelRNG = "RNG"
)

const (
	SexFemale = "FEMALE"
	SexMale   = "MALE"
)

const (
	MinAgeWeeks = 0
	MaxAgeWeeks = 52 * 12

	// curveMaxAgeWeeks is the oldest age the growth curves are used for.
	curveMaxAgeWeeks = 6
	noiseMaxGrams    = 445
)

var (
	WeightModels = []string{ModelGompertz, ModelWeibull, ModelMMF}
	Sexes        = []string{SexFemale, SexMale}
)

type curveParams struct {
	A, B, K, D float64
}

var parameters = map[string]map[string]curveParams{
	ModelGompertz: {
		SexFemale: {A: 6282.347, B: 5.313, K: 0.268},
		SexMale:   {A: 5453.802, B: 4.916, K: 0.265},
	},
	ModelMMF: {
		SexFemale: {A: 41.542, B: 275.155, K: 15222.91, D: 2.123},
		SexMale:   {A: 38.714, B: 424.566, K: 31247.15, D: 1.871},
	},
	ModelWeibull: {
		SexFemale: {A: 8635.340, B: 8594.225, K: 0.006, D: 2.110},
		SexMale:   {A: 17435.182, B: 17396.753, K: 0.004, D: 1.865},
	},
}

func gompertz(p curveParams, t float64) float64 {
	return p.A * math.Exp(-p.B*math.Exp(-p.K*t))
}

func mmf(p curveParams, t float64) float64 {
	td := math.Pow(t, p.D)
	return (p.A*p.B + p.K*td) / (p.B + td)
}

func weibull(p curveParams, t float64) float64 {
	return p.A - p.B*math.Exp(-p.K*math.Pow(t, p.D))
}

// CurveWeight evaluates a growth curve at the given age.
func CurveWeight(model, sex string, ageWeeks float64) (float64, error) {
	bySex, ok := parameters[model]
	if !ok {
		return 0, fmt.Errorf("unknown weight model %q", model)
	}
	p, ok := bySex[sex]
	if !ok {
		return 0, fmt.Errorf("unknown sex %q", sex)
	}

	switch model {
	case ModelGompertz:
		return gompertz(p, ageWeeks), nil
	case ModelMMF:
		return mmf(p, ageWeeks), nil
	default:
		return weibull(p, ageWeeks), nil
	}
}

// WeightGrams picks a weight model for a chicken and returns it together
// with the noisy weight, rounded to two decimals.
func WeightGrams(sex string, ageWeeks float64, rng *rand.Rand) (string, float64, error) {
	var (
		model  string
		weight float64
	)
	if ageWeeks >= 0 && ageWeeks <= curveMaxAgeWeeks {
		model = WeightModels[rng.IntN(len(WeightModels))]
		w, err := CurveWeight(model, sex, ageWeeks)
		if err != nil {
			return "", 0, err
		}
		weight = w
	} else {
		// The curves are absurd for older chickens.
		model = ModelRNG
		maxWeight := math.Min(2100+200*math.Floor(ageWeeks/52), 4500)
		weight = uniform(rng, 1800, maxWeight)
	}

	noise := uniform(rng, 0, noiseMaxGrams)
	return model, round2(weight + noise), nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
