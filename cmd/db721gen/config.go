package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ivan-cunha/db721/internal/chickenfarm"
	"github.com/ivan-cunha/db721/internal/compression"
	"github.com/ivan-cunha/db721/internal/storage"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type FarmConfig struct {
	Name        string   `yaml:"name"`
	Sexes       []string `yaml:"sexes"`
	MinAgeWeeks *float64 `yaml:"min_age_weeks"`
	MaxAgeWeeks *float64 `yaml:"max_age_weeks"`
	Mutation    string   `yaml:"mutation"`
}

type RunConfig struct {
	// Count is multiplied by the scale factor.
	Count int      `yaml:"count"`
	Farms []string `yaml:"farms"`
}

type Configuration struct {
	OutputDir         string `yaml:"output"`
	Seed              uint64 `yaml:"seed"`
	Scale             int    `yaml:"scale"`
	MaxValuesPerBlock int    `yaml:"max_values_per_block"`

	WriteCSV       bool   `yaml:"csv"`
	CSVCompression string `yaml:"csv_compression"`

	// Farms and Runs fall back to the benchmark defaults when empty.
	Farms []FarmConfig `yaml:"farms"`
	Runs  []RunConfig  `yaml:"runs"`
}

func defaultConfiguration() Configuration {
	return Configuration{
		OutputDir:         ".",
		Seed:              15721,
		Scale:             1,
		MaxValuesPerBlock: storage.DefaultMaxValuesPerBlock,
		WriteCSV:          true,
		CSVCompression:    "none",
	}
}

// readConfigurationFile loads confpath on top of the defaults. An empty path
// yields the defaults.
func readConfigurationFile(confpath string) (Configuration, error) {
	opts := defaultConfiguration()
	if confpath == "" {
		return opts, nil
	}

	log.WithField("path", confpath).Info("Loading configuration file")

	f, err := os.Open(confpath)
	if err != nil {
		return opts, fmt.Errorf("could not open configuration file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return opts, fmt.Errorf("could not parse configuration file: %w", err)
	}
	return opts, nil
}

func (c Configuration) Validate() error {
	if c.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	}
	if c.MaxValuesPerBlock < 1 {
		return fmt.Errorf("%w: got %d", storage.ErrInvalidBlockSize, c.MaxValuesPerBlock)
	}
	if _, err := compression.GetCompressor(c.CSVCompression); err != nil {
		return fmt.Errorf("csv compression %q: %w", c.CSVCompression, err)
	}
	_, _, err := c.Build()
	return err
}

// Build resolves the farms and runs the configuration describes.
func (c Configuration) Build() ([]*chickenfarm.Farm, []chickenfarm.Run, error) {
	farms := chickenfarm.DefaultFarms()
	if len(c.Farms) > 0 {
		farms = make([]*chickenfarm.Farm, 0, len(c.Farms))
		seen := make(map[string]bool, len(c.Farms))
		for _, fc := range c.Farms {
			if seen[fc.Name] {
				return nil, nil, fmt.Errorf("farm %q defined twice", fc.Name)
			}
			seen[fc.Name] = true

			farm, err := fc.build()
			if err != nil {
				return nil, nil, err
			}
			farms = append(farms, farm)
		}
	}

	if len(c.Runs) == 0 {
		runs, err := chickenfarm.DefaultRuns(farms, c.Scale)
		if err != nil {
			return nil, nil, fmt.Errorf("default runs need the default farms: %w", err)
		}
		return farms, runs, nil
	}

	byName := make(map[string]*chickenfarm.Farm, len(farms))
	for _, f := range farms {
		byName[f.Name] = f
	}
	runs := make([]chickenfarm.Run, 0, len(c.Runs))
	for i, rc := range c.Runs {
		if rc.Count < 0 {
			return nil, nil, fmt.Errorf("run %d: negative count %d", i, rc.Count)
		}
		if len(rc.Farms) == 0 {
			return nil, nil, fmt.Errorf("run %d: no farms", i)
		}
		run := chickenfarm.Run{Count: rc.Count * c.Scale}
		for _, name := range rc.Farms {
			f, ok := byName[name]
			if !ok {
				return nil, nil, fmt.Errorf("run %d: unknown farm %q", i, name)
			}
			run.Farms = append(run.Farms, f)
		}
		runs = append(runs, run)
	}
	return farms, runs, nil
}

func (fc FarmConfig) build() (*chickenfarm.Farm, error) {
	if fc.Name == "" {
		return nil, errors.New("farm without a name")
	}
	mutation, err := chickenfarm.LookupMutation(fc.Mutation)
	if err != nil {
		return nil, fmt.Errorf("farm %s: %w", fc.Name, err)
	}

	farm := &chickenfarm.Farm{
		Name:        fc.Name,
		Sexes:       fc.Sexes,
		MinAgeWeeks: chickenfarm.MinAgeWeeks,
		MaxAgeWeeks: chickenfarm.MaxAgeWeeks,
		Mutation:    mutation,
	}
	if len(farm.Sexes) == 0 {
		farm.Sexes = chickenfarm.Sexes
	}
	if fc.MinAgeWeeks != nil {
		farm.MinAgeWeeks = *fc.MinAgeWeeks
	}
	if fc.MaxAgeWeeks != nil {
		farm.MaxAgeWeeks = *fc.MaxAgeWeeks
	}
	if err := farm.Validate(); err != nil {
		return nil, err
	}
	return farm, nil
}
