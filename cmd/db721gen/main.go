package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
)

func main() {
	opts, err := readCommandLineOptions(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		log.WithError(err).Fatal("could not parse command line arguments")
	}
	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	conf, err := readConfigurationFile(opts.ConfigPath)
	if err != nil {
		log.WithError(err).Fatal("could not load configuration")
	}
	opts.apply(&conf)
	if err := conf.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	log.WithFields(log.Fields{
		"output": conf.OutputDir,
		"seed":   conf.Seed,
		"scale":  conf.Scale,
		"block":  conf.MaxValuesPerBlock,
	}).Info("Generating ChickenFarm data")

	if err := generate(conf); err != nil {
		log.WithError(err).Fatal("generation failed")
	}
}
