package chickenfarm

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/ivan-cunha/db721/internal/encoding"
)

type Chicken struct {
	Identifier  int32
	FarmName    string
	WeightModel string
	Sex         string
	AgeWeeks    float64
	WeightGrams float64
	Notes       string
}

// Mutation alters a freshly generated chicken.
type Mutation func(c *Chicken, rng *rand.Rand)

const MutationWoody = "WOODY"

// Woody marks a chicken with woody breast and makes it heavier.
func Woody(c *Chicken, rng *rand.Rand) {
	c.Notes = MutationWoody
	c.WeightGrams += uniform(rng, 300, 600)
}

var mutations = map[string]Mutation{
	MutationWoody: Woody,
}

// LookupMutation resolves a mutation by name, case-insensitively. The empty
// name means no mutation.
func LookupMutation(name string) (Mutation, error) {
	if name == "" {
		return nil, nil
	}
	m, ok := mutations[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown mutation %q", name)
	}
	return m, nil
}

type Farm struct {
	Name        string
	Sexes       []string
	MinAgeWeeks float64
	MaxAgeWeeks float64
	Mutation    Mutation
}

func (f *Farm) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("farm name is empty")
	}
	if err := encoding.ValidateString(f.Name); err != nil {
		return fmt.Errorf("farm name: %w", err)
	}
	if len(f.Sexes) == 0 {
		return fmt.Errorf("farm %s: no sexes", f.Name)
	}
	for _, sex := range f.Sexes {
		if !slices.Contains(Sexes, sex) {
			return fmt.Errorf("farm %s: unknown sex %q", f.Name, sex)
		}
	}
	for _, age := range []float64{f.MinAgeWeeks, f.MaxAgeWeeks} {
		if math.IsNaN(age) || math.IsInf(age, 0) {
			return fmt.Errorf("farm %s: age %g is not finite", f.Name, age)
		}
	}
	if f.MinAgeWeeks < MinAgeWeeks || f.MinAgeWeeks > f.MaxAgeWeeks {
		return fmt.Errorf("farm %s: invalid age range [%g, %g]", f.Name, f.MinAgeWeeks, f.MaxAgeWeeks)
	}
	return nil
}

// GenerateChicken builds one chicken from its own seed, so the same id and
// seed always yield the same chicken.
func (f *Farm) GenerateChicken(id int32, seed uint64) (Chicken, error) {
	rng := rand.New(rand.NewPCG(seed, 0))

	sex := f.Sexes[rng.IntN(len(f.Sexes))]
	age := round2(uniform(rng, f.MinAgeWeeks, f.MaxAgeWeeks))
	model, weight, err := WeightGrams(sex, age, rng)
	if err != nil {
		return Chicken{}, fmt.Errorf("farm %s: %w", f.Name, err)
	}

	c := Chicken{
		Identifier:  id,
		FarmName:    f.Name,
		WeightModel: model,
		Sex:         sex,
		AgeWeeks:    age,
		WeightGrams: weight,
	}
	if f.Mutation != nil {
		f.Mutation(&c, rng)
	}
	return c, nil
}

// DefaultFarms returns the six farms of the ChickenFarm benchmark.
func DefaultFarms() []*Farm {
	return []*Farm{
		{Name: "Incubator", Sexes: Sexes, MinAgeWeeks: MinAgeWeeks, MaxAgeWeeks: 2},
		{Name: "Eggscellent", Sexes: []string{SexFemale}, MinAgeWeeks: 4 * 6, MaxAgeWeeks: 52 * 3},
		{Name: "Eggstraordinaire", Sexes: []string{SexFemale}, MinAgeWeeks: 52 * 1, MaxAgeWeeks: 52 * 3},
		{Name: "Breakfast Lunch Dinner", Sexes: Sexes, MinAgeWeeks: 0, MaxAgeWeeks: 6},
		{Name: "Dish of the Day", Sexes: []string{SexMale}, MinAgeWeeks: 0, MaxAgeWeeks: 8},
		{Name: "Cheep Birds", Sexes: Sexes, MinAgeWeeks: 0, MaxAgeWeeks: 6, Mutation: Woody},
	}
}
