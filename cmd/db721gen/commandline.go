package main

import (
	"github.com/jessevdk/go-flags"
)

type CommandLineOptions struct {
	ConfigPath string `short:"c" long:"config" description:"YAML configuration file"`
	OutputDir  string `short:"o" long:"output" description:"directory for the generated files"`

	Seed              uint64 `long:"seed" description:"random seed"`
	Scale             int    `long:"scale" description:"scale factor for the number of chickens"`
	MaxValuesPerBlock int    `long:"max-values-per-block" description:"block capacity of db721 files"`

	CSVCompression string `long:"csv-compression" description:"compression for the CSV mirrors (none, snappy)"`
	NoCSV          bool   `long:"no-csv" description:"skip the CSV mirrors"`

	Verbose bool `short:"v" long:"verbose" description:"log every column written"`

	set map[string]bool
}

// readCommandLineOptions parses args. Only the options actually given end
// up overriding the configuration file.
func readCommandLineOptions(args []string) (CommandLineOptions, error) {
	opts := CommandLineOptions{}
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	for _, name := range []string{"output", "seed", "scale", "max-values-per-block", "csv-compression"} {
		if opt := parser.FindOptionByLongName(name); opt != nil && opt.IsSet() {
			opts.set[name] = true
		}
	}
	return opts, nil
}

func (o CommandLineOptions) apply(c *Configuration) {
	if o.set["output"] {
		c.OutputDir = o.OutputDir
	}
	if o.set["seed"] {
		c.Seed = o.Seed
	}
	if o.set["scale"] {
		c.Scale = o.Scale
	}
	if o.set["max-values-per-block"] {
		c.MaxValuesPerBlock = o.MaxValuesPerBlock
	}
	if o.set["csv-compression"] {
		c.CSVCompression = o.CSVCompression
	}
	if o.NoCSV {
		c.WriteCSV = false
	}
}
