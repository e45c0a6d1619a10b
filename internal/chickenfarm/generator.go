package chickenfarm

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/ivan-cunha/db721/pkg/types"
)

// Run generates Count chickens, each from a farm picked at random out of
// Farms. Consecutive runs produce the stretches of similar rows that make
// block statistics worth checking.
type Run struct {
	Count int
	Farms []*Farm
}

// DefaultRuns mirrors the benchmark: woody broilers, then layers, then a
// mix, then chicks.
func DefaultRuns(farms []*Farm, scale int) ([]Run, error) {
	byName := make(map[string]*Farm, len(farms))
	for _, f := range farms {
		byName[f.Name] = f
	}
	pick := func(names ...string) ([]*Farm, error) {
		out := make([]*Farm, 0, len(names))
		for _, name := range names {
			f, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("unknown farm %q", name)
			}
			out = append(out, f)
		}
		return out, nil
	}

	plan := []struct {
		count int
		farms []string
	}{
		{50000, []string{"Cheep Birds"}},
		{30000, []string{"Eggscellent", "Eggstraordinaire"}},
		{30000, []string{"Breakfast Lunch Dinner", "Dish of the Day", "Cheep Birds", "Eggscellent"}},
		{10000, []string{"Incubator"}},
	}
	runs := make([]Run, 0, len(plan))
	for _, p := range plan {
		f, err := pick(p.farms...)
		if err != nil {
			return nil, err
		}
		runs = append(runs, Run{Count: p.count * scale, Farms: f})
	}
	return runs, nil
}

type Generator struct {
	seed     uint64
	rng      *rand.Rand
	nextID   int32
	chickens []Chicken
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		seed:   seed,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		nextID: 1,
	}
}

// Generate appends the chickens of one run. Identifiers continue where the
// previous run stopped.
func (g *Generator) Generate(run Run) error {
	if len(run.Farms) == 0 {
		return fmt.Errorf("run of %d chickens has no farms", run.Count)
	}
	if run.Count < 0 || int64(g.nextID)+int64(run.Count) > math.MaxInt32 {
		return fmt.Errorf("run of %d chickens overflows identifiers", run.Count)
	}

	for i := 0; i < run.Count; i++ {
		farm := run.Farms[g.rng.IntN(len(run.Farms))]
		c, err := farm.GenerateChicken(g.nextID, g.seed+uint64(g.nextID))
		if err != nil {
			return err
		}
		g.chickens = append(g.chickens, c)
		g.nextID++
	}
	return nil
}

func (g *Generator) Chickens() []Chicken {
	return g.chickens
}

// FarmColumns lays out the Farm table.
func FarmColumns(farms []*Farm) []types.Column {
	names := make([]string, len(farms))
	minAges := make([]float32, len(farms))
	maxAges := make([]float32, len(farms))
	for i, f := range farms {
		names[i] = f.Name
		minAges[i] = float32(f.MinAgeWeeks)
		maxAges[i] = float32(f.MaxAgeWeeks)
	}
	return []types.Column{
		{Name: "farm_name", Type: types.FixedString32Type, Values: names},
		{Name: "min_age_weeks", Type: types.Float32Type, Values: minAges},
		{Name: "max_age_weeks", Type: types.Float32Type, Values: maxAges},
	}
}

// ChickenColumns lays out the Chicken table.
func ChickenColumns(chickens []Chicken) []types.Column {
	n := len(chickens)
	var (
		ids     = make([]int32, n)
		farms   = make([]string, n)
		models  = make([]string, n)
		sexes   = make([]string, n)
		ages    = make([]float32, n)
		weights = make([]float32, n)
		notes   = make([]string, n)
	)
	for i, c := range chickens {
		ids[i] = c.Identifier
		farms[i] = c.FarmName
		models[i] = c.WeightModel
		sexes[i] = c.Sex
		ages[i] = float32(c.AgeWeeks)
		weights[i] = float32(c.WeightGrams)
		notes[i] = c.Notes
	}
	return []types.Column{
		{Name: "identifier", Type: types.Int32Type, Values: ids},
		{Name: "farm_name", Type: types.FixedString32Type, Values: farms},
		{Name: "weight_model", Type: types.FixedString32Type, Values: models},
		{Name: "sex", Type: types.FixedString32Type, Values: sexes},
		{Name: "age_weeks", Type: types.Float32Type, Values: ages},
		{Name: "weight_g", Type: types.Float32Type, Values: weights},
		{Name: "notes", Type: types.FixedString32Type, Values: notes},
	}
}

var (
	FarmHeader    = []string{"Farm Name", "Min Age Weeks", "Max Age Weeks"}
	ChickenHeader = []string{"Identifier", "Farm Name", "Weight Model", "Sex", "Age (weeks)", "Weight (g)", "Notes"}
)

func FarmRecord(f *Farm) []string {
	return []string{f.Name, formatFloat(f.MinAgeWeeks), formatFloat(f.MaxAgeWeeks)}
}

func ChickenRecord(c Chicken) []string {
	return []string{
		strconv.FormatInt(int64(c.Identifier), 10),
		c.FarmName,
		c.WeightModel,
		c.Sex,
		formatFloat(c.AgeWeeks),
		formatFloat(c.WeightGrams),
		c.Notes,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
