package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/challenges/internal/config"
	"github.com/nao1215/challenges/internal/guess"
)

// progressEvery is how often, in attempts, progress is logged.
const progressEvery = 1000

// NewGuessCmd creates the guess command.
func NewGuessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Try candidate passwords until the server accepts one",
		Long: `Guess reads candidate passwords, one per line, and requests the URL
template once per candidate. It stops at the first response whose first line
equals the sentinel and prints that response body.

The template must contain {password}. {username} is replaced with --user.
Any request error or non-2xx response stops the search.

Examples:
  # Join the server and fetch your list
  curl -X POST http://127.0.0.1:3000/u/alice
  curl -o passwords.txt http://127.0.0.1:3000/u/alice/passwords.txt

  # Find your password
  challenges guess --user alice

  # Read candidates from stdin and use 8 parallel requests
  cat passwords.txt | challenges guess --user alice -l - -n 8

  # Any server, any URL layout
  challenges guess -u "https://example.com/login?pw={password}" --sentinel OK`,
		Args: cobra.NoArgs,
		RunE: runGuessCmd,
	}

	cmd.Flags().StringP("list", "l", config.DefaultPasswordList,
		`Candidate password file ("-" reads stdin)`)
	cmd.Flags().StringP("url", "u", config.DefaultURLTemplate,
		"URL template containing {password} and optionally {username}")
	cmd.Flags().String("user", "",
		"Value for the {username} placeholder")
	cmd.Flags().String("sentinel", config.DefaultSentinel,
		"First response line that marks the right password")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of parallel requests (1 keeps list order)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("delay", 0,
		"Pause between requests of each worker")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().Int64("max-body-size", guess.DefaultMaxBodySize,
		"Bytes of each response to read and print")

	return cmd
}

// buildGuessConfig layers guess flags over the loaded configuration.
func buildGuessConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	for _, o := range []struct {
		name string
		dst  *string
	}{
		{"list", &cfg.PasswordList},
		{"url", &cfg.URLTemplate},
		{"user", &cfg.Username},
		{"sentinel", &cfg.Sentinel},
		{"proxy", &cfg.ProxyAddress},
	} {
		if err := overrideString(cmd, o.name, o.dst); err != nil {
			return nil, err
		}
	}
	if err := overrideInt(cmd, "concurrency", &cfg.Concurrency); err != nil {
		return nil, err
	}
	if err := overrideDuration(cmd, "timeout", &cfg.Timeout); err != nil {
		return nil, err
	}
	if err := overrideDuration(cmd, "delay", &cfg.Delay); err != nil {
		return nil, err
	}

	if err := cfg.ValidateGuess(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func runGuessCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildGuessConfig(cmd)
	if err != nil {
		return err
	}

	maxBodySize, err := cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return err
	}
	if maxBodySize <= 0 {
		return fmt.Errorf("configuration error: --max-body-size must be positive, got %d", maxBodySize)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	var candidates guess.Candidates
	if cfg.PasswordList == "-" {
		candidates, err = guess.LoadCandidates(cmd.InOrStdin())
	} else {
		candidates, err = guess.LoadCandidatesFile(cfg.PasswordList)
	}
	if err != nil {
		return fmt.Errorf("failed to read candidates: %w", err)
	}

	tmpl, err := guess.ParseTemplate(cfg.URLTemplate)
	if err != nil {
		return err
	}

	client, err := guess.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return err
	}

	g := guess.New(tmpl,
		guess.WithUsername(cfg.Username),
		guess.WithHTTPClient(client),
		guess.WithSentinel(cfg.Sentinel),
		guess.WithConcurrency(cfg.Concurrency),
		guess.WithDelay(cfg.Delay),
		guess.WithMaxBodySize(maxBodySize),
		guess.WithLogger(logger),
		guess.WithProgress(func(attempts int) {
			if attempts%progressEvery == 0 {
				logger.Info("progress", "attempts", attempts, "total", len(candidates))
			}
		}),
	)

	ctx, stop := signalContext()
	defer stop()

	match, err := g.Run(ctx, candidates)
	if err != nil {
		if errors.Is(err, guess.ErrNotFound) {
			return fmt.Errorf("%w (tried %d candidates)", err, len(candidates))
		}
		return err
	}

	logger.Info("password found", "line", match.Index+1, "attempts", match.Attempts)
	fmt.Fprintln(cmd.OutOrStdout(), match.Body)
	return nil
}
