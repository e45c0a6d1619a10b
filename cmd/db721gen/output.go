package main

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/ivan-cunha/db721/internal/chickenfarm"
	"github.com/ivan-cunha/db721/internal/compression"
	"github.com/ivan-cunha/db721/internal/mirror"
	"github.com/ivan-cunha/db721/internal/storage"
	"github.com/ivan-cunha/db721/pkg/types"
	log "github.com/sirupsen/logrus"
)

const (
	Db721Extension = ".db721"
	CSVExtension   = ".csv"
)

// writeTable writes columns as one db721 file at path.
func writeTable(path, table string, columns []types.Column, maxValuesPerBlock int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	logger := log.WithField("path", path)
	w, err := storage.NewWriter(f, table,
		storage.WithMaxValuesPerBlock(maxValuesPerBlock),
		storage.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	for _, col := range columns {
		if _, err := w.WriteColumn(col.Name, col.Type, col.Values); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	logger.WithFields(log.Fields{
		"bytes":  w.Size(),
		"footer": w.FooterSize(),
	}).Info("Wrote db721 file")
	return nil
}

// writeMirror writes the CSV copy of a table; the compressor decides the
// final extension.
func writeMirror(path string, comp compression.Compressor, header []string, records iter.Seq[[]string]) error {
	path += comp.Extension()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	n, err := mirror.WriteTable(f, comp, header, records)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"path":        path,
		"bytes":       n,
		"compression": comp.Name(),
	}).Info("Wrote CSV mirror")
	return nil
}

// generate produces every output file the configuration asks for.
func generate(conf Configuration) error {
	farms, runs, err := conf.Build()
	if err != nil {
		return err
	}

	gen := chickenfarm.NewGenerator(conf.Seed)
	for i, run := range runs {
		if err := gen.Generate(run); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		log.WithFields(log.Fields{
			"run":      i,
			"chickens": run.Count,
			"farms":    len(run.Farms),
		}).Info("Generated chickens")
	}
	chickens := gen.Chickens()

	if err := os.MkdirAll(conf.OutputDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	out := func(name string) string { return filepath.Join(conf.OutputDir, name) }

	if err := writeTable(out("data-farms"+Db721Extension), "Farm", chickenfarm.FarmColumns(farms), conf.MaxValuesPerBlock); err != nil {
		return err
	}
	if err := writeTable(out("data-chickens"+Db721Extension), "Chicken", chickenfarm.ChickenColumns(chickens), conf.MaxValuesPerBlock); err != nil {
		return err
	}

	if !conf.WriteCSV {
		return nil
	}
	comp, err := compression.GetCompressor(conf.CSVCompression)
	if err != nil {
		return fmt.Errorf("csv compression %q: %w", conf.CSVCompression, err)
	}
	if err := writeMirror(out("data-farms"+CSVExtension), comp, chickenfarm.FarmHeader, mirror.Records(farms, chickenfarm.FarmRecord)); err != nil {
		return err
	}
	return writeMirror(out("data-chickens"+CSVExtension), comp, chickenfarm.ChickenHeader, mirror.Records(chickens, chickenfarm.ChickenRecord))
}
