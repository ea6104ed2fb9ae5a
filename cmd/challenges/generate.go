package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/sample"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random base64 samples of a text corpus to numbered files",
		Long: `Generate base64-encodes every line of the source text, then writes
--count files. Each file holds --lines distinct source lines drawn at random,
one encoded line per row. Files are named {prefix}_00000, {prefix}_00001, ...

The source may be a single file, "-" for stdin, or a glob such as
"texts/**/*.txt" whose matches are read in lexical order.

Examples:
  # 10000 files of 10 lines from corpus.txt into the current directory
  challenges generate

  # Reproducible output in a fresh directory
  challenges generate -s book.txt -o out --seed 42 --force

  # Compressed files from several sources
  challenges generate -s "texts/**/*.txt" -c 500 -k 20 --compress`,
		Args: cobra.NoArgs,
		RunE: runGenerateCmd,
	}

	cmd.Flags().StringP("source", "s", config.DefaultSource,
		`Source text file or glob ("-" reads stdin)`)
	cmd.Flags().IntP("count", "c", config.DefaultSampleCount,
		"Number of files to write")
	cmd.Flags().IntP("lines", "k", config.DefaultLinesPerFile,
		"Lines drawn into each file")
	cmd.Flags().String("prefix", config.DefaultPrefix,
		"File name prefix")
	cmd.Flags().StringP("out", "o", config.DefaultOutDir,
		"Output directory (created if missing)")
	cmd.Flags().Uint64("seed", 0,
		"Random seed; 0 picks one from the clock")
	cmd.Flags().Bool("compress", false,
		"Write each file as an lz4 frame with a .lz4 suffix")
	cmd.Flags().Bool("force", false,
		"Remove earlier {prefix}_* files from the output directory first")
	cmd.Flags().Int("workers", 0,
		"Parallel file writers (default: number of CPUs)")

	return cmd
}

// buildGenerateConfig layers generate flags over the loaded configuration.
func buildGenerateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := overrideString(cmd, "source", &cfg.SourcePattern); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "count", &cfg.SampleCount); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "lines", &cfg.LinesPerFile); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "prefix", &cfg.Prefix); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "out", &cfg.OutDir); err != nil {
		return nil, err
	}
	if err := overrideUint64(cmd, "seed", &cfg.Seed); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "compress", &cfg.Compress); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "force", &cfg.Force); err != nil {
		return nil, err
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildGenerateConfig(cmd)
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	var corpus sample.Corpus
	if cfg.SourcePattern == "-" {
		corpus, err = sample.LoadCorpus(cmd.InOrStdin())
	} else {
		corpus, err = sample.LoadCorpusFiles(cfg.SourcePattern)
	}
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	opts := []sample.Option{
		sample.WithCount(cfg.SampleCount),
		sample.WithLinesPerFile(cfg.LinesPerFile),
		sample.WithPrefix(cfg.Prefix),
		sample.WithOutDir(cfg.OutDir),
		sample.WithSeed(cfg.Seed),
		sample.WithCompression(cfg.Compress),
		sample.WithForce(cfg.Force),
		sample.WithLogger(logger),
	}
	if workers > 0 {
		opts = append(opts, sample.WithWorkers(workers))
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := sample.New(corpus, opts...).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files of %d lines to %s (seed %d)\n",
		len(result.Files), cfg.LinesPerFile, cfg.OutDir, result.Seed)
	return nil
}
