package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/ivan-cunha/db721/internal/encoding"
	"github.com/ivan-cunha/db721/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadConfigurationFile_Defaults(t *testing.T) {
	conf, err := readConfigurationFile("")
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	farms, runs, err := conf.Build()
	require.NoError(t, err)
	assert.Len(t, farms, 6)
	assert.Len(t, runs, 4)
	assert.Equal(t, uint64(15721), conf.Seed)
	assert.Equal(t, 50000, conf.MaxValuesPerBlock)
}

func TestReadConfigurationFile(t *testing.T) {
	path := writeConfig(t, `
seed: 7
scale: 2
max_values_per_block: 4
csv_compression: snappy
farms:
  - name: Coop
    sexes: [FEMALE]
    min_age_weeks: 10
    max_age_weeks: 20
  - name: Woody Acres
    max_age_weeks: 6
    mutation: woody
runs:
  - count: 5
    farms: [Coop]
  - count: 3
    farms: [Coop, Woody Acres]
`)
	conf, err := readConfigurationFile(path)
	require.NoError(t, err)
	require.NoError(t, conf.Validate())
	assert.Equal(t, uint64(7), conf.Seed)
	assert.True(t, conf.WriteCSV)

	farms, runs, err := conf.Build()
	require.NoError(t, err)
	require.Len(t, farms, 2)
	assert.Equal(t, 10.0, farms[0].MinAgeWeeks)
	assert.Equal(t, 0.0, farms[1].MinAgeWeeks)
	assert.NotNil(t, farms[1].Mutation)
	assert.Len(t, farms[1].Sexes, 2)

	require.Len(t, runs, 2)
	assert.Equal(t, 10, runs[0].Count)
	assert.Equal(t, 6, runs[1].Count)
}

func TestReadConfigurationFile_Errors(t *testing.T) {
	_, err := readConfigurationFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = readConfigurationFile(writeConfig(t, "sead: 1\n"))
	require.Error(t, err)
}

func TestConfiguration_Validate(t *testing.T) {
	cases := map[string]string{
		"unknown farm":     "runs:\n  - count: 1\n    farms: [Nowhere]\n",
		"unknown mutation": "farms:\n  - name: A\n    mutation: fluffy\n",
		"bad ages":         "farms:\n  - name: A\n    min_age_weeks: 9\n    max_age_weeks: 1\n",
		"twice":            "farms:\n  - name: A\n  - name: A\n",
		"no defaults":      "farms:\n  - name: A\n",
		"block size":       "max_values_per_block: 0\n",
		"compression":      "csv_compression: lzma\n",
		"scale":            "scale: 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			conf, err := readConfigurationFile(writeConfig(t, content))
			require.NoError(t, err)
			require.Error(t, conf.Validate())
		})
	}
}

// Farms that could never be written are refused before any chicken is
// generated.
func TestConfiguration_ValidateFarm(t *testing.T) {
	cases := map[string]struct {
		farm string
		want error
		msg  string
	}{
		"nan age":        {farm: "name: A\n    max_age_weeks: .nan", msg: "not finite"},
		"infinite age":   {farm: "name: A\n    max_age_weeks: .inf", msg: "not finite"},
		"long name":      {farm: "name: Cluckingham Palace Free Range Co", want: encoding.ErrStringTooLong},
		"non-ascii name": {farm: "name: Hühnerhof", want: encoding.ErrInvalidString},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			conf, err := readConfigurationFile(writeConfig(t,
				"farms:\n  - "+tc.farm+"\nruns:\n  - count: 1\n    farms: [A, Cluckingham Palace Free Range Co, Hühnerhof]\n"))
			require.NoError(t, err)
			err = conf.Validate()
			require.Error(t, err)
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
			} else {
				require.ErrorContains(t, err, tc.msg)
			}
		})
	}
}

func TestCommandLineOverrides(t *testing.T) {
	opts, err := readCommandLineOptions([]string{"--seed", "0", "--max-values-per-block", "3", "--no-csv", "-o", "out"})
	require.NoError(t, err)

	conf := defaultConfiguration()
	opts.apply(&conf)
	assert.Equal(t, uint64(0), conf.Seed)
	assert.Equal(t, 3, conf.MaxValuesPerBlock)
	assert.Equal(t, "out", conf.OutputDir)
	assert.False(t, conf.WriteCSV)
	assert.Equal(t, 1, conf.Scale)
	assert.Equal(t, "none", conf.CSVCompression)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	conf := defaultConfiguration()
	conf.OutputDir = dir
	conf.MaxValuesPerBlock = 8
	conf.CSVCompression = "snappy"
	conf.Farms = []FarmConfig{{Name: "Incubator", MaxAgeWeeks: new(float64)}}
	conf.Runs = []RunConfig{{Count: 20, Farms: []string{"Incubator"}}}
	require.NoError(t, conf.Validate())
	require.NoError(t, generate(conf))

	data, err := os.ReadFile(filepath.Join(dir, "data-chickens.db721"))
	require.NoError(t, err)
	footerLen := encoding.DecodeTrailer(data[len(data)-encoding.TrailerSize:])
	s, err := schema.Decode(data[len(data)-encoding.TrailerSize-footerLen : len(data)-encoding.TrailerSize])
	require.NoError(t, err)
	assert.Equal(t, "Chicken", s.Table)
	assert.Equal(t, []string{"identifier", "farm_name", "weight_model", "sex", "age_weeks", "weight_g", "notes"}, s.Names())

	ids, err := s.GetColumn("identifier")
	require.NoError(t, err)
	assert.Equal(t, 3, ids.Blocks())
	notes, err := s.GetColumn("notes")
	require.NoError(t, err)
	// 20 ids and floats of 4 bytes, 20 strings of 32 bytes before notes
	assert.Equal(t, int64(20*4*3+20*32*3), notes.Offset())
	assert.Equal(t, int64(len(data)-encoding.TrailerSize-footerLen), notes.Offset()+20*32)

	farms, err := os.ReadFile(filepath.Join(dir, "data-farms.db721"))
	require.NoError(t, err)
	assert.NotEmpty(t, farms)

	f, err := os.Open(filepath.Join(dir, "data-farms.csv.sz"))
	require.NoError(t, err)
	defer f.Close()
	csv, err := io.ReadAll(snappy.NewReader(f))
	require.NoError(t, err)
	assert.Equal(t, "Farm Name,Min Age Weeks,Max Age Weeks\r\nIncubator,0,0\r\n", string(csv))

	_, err = os.Stat(filepath.Join(dir, "data-chickens.csv.sz"))
	require.NoError(t, err)
}
