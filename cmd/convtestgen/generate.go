package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/convtestgen/internal/config"
	"github.com/example/convtestgen/internal/testvec"
	"github.com/example/convtestgen/internal/verilog"
)

type runSummary struct {
	Path  string
	Cases int
	Seed  int64
	Bytes int64
}

// generate writes cfg.Generator.NumTests cases to cfg.Output.Filename. The
// parent directory must already exist.
func generate(cfg config.Config) (summary runSummary, err error) {
	gen, err := newGenerator(cfg.Generator)
	if err != nil {
		return runSummary{}, err
	}

	path := cfg.Output.Filename
	slog.Info("creating test data file",
		"path", path,
		"num_tests", cfg.Generator.NumTests,
		"vector_length", cfg.Generator.VectorLength,
		"bias_term", cfg.Generator.BiasTerm,
		"seed", gen.Seed(),
	)

	f, err := os.Create(path)
	if err != nil {
		return runSummary{}, fmt.Errorf("create test data file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close test data file: %w", cerr)
		}
	}()

	n, err := writeTestData(f, cfg, gen)
	if err != nil {
		return runSummary{}, fmt.Errorf("write %s: %w", path, err)
	}

	summary = runSummary{
		Path:  path,
		Cases: cfg.Generator.NumTests,
		Seed:  gen.Seed(),
		Bytes: n,
	}
	slog.Info("test data written",
		"path", summary.Path,
		"cases", summary.Cases,
		"seed", summary.Seed,
		"bytes", summary.Bytes,
	)
	return summary, nil
}

func newGenerator(g config.GeneratorConfig) (*testvec.Generator, error) {
	return testvec.NewGenerator(testvec.Options{
		Length: g.VectorLength,
		Lower:  float64(g.LowerRange),
		Upper:  float64(g.UpperRange),
		Bias:   g.BiasTerm,
		Seed:   g.Seed,
	})
}

// writeTestData streams every case through a HeaderWriter and returns the
// number of bytes written.
func writeTestData(w io.Writer, cfg config.Config, gen *testvec.Generator) (int64, error) {
	hw := verilog.NewHeaderWriter(w, verilog.Layout{
		Guard:        cfg.Output.GuardMacro,
		VectorLength: cfg.Generator.VectorLength,
		NumTests:     cfg.Generator.NumTests,
		Debug:        cfg.Output.Debug,
	})

	if err := hw.Begin(); err != nil {
		return hw.BytesWritten(), err
	}
	for i := range cfg.Generator.NumTests {
		c := gen.Next()
		if err := hw.WriteCase(i, c); err != nil {
			return hw.BytesWritten(), err
		}
		slog.Debug("case written", "index", i, "output", c.Output, "bias", c.Bias)
	}
	if err := hw.End(); err != nil {
		return hw.BytesWritten(), err
	}
	return hw.BytesWritten(), nil
}
