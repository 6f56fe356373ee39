package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"

	"github.com/encodeous/tint"
	"github.com/routepath/asrouter/link"
	"github.com/routepath/asrouter/router"
	"github.com/routepath/asrouter/state"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	optionsPath string
	debugAddr   string
)

// runCmd is the only subcommand: "asrouter run <asn> <endpoint>-<relation>...".
var runCmd = &cobra.Command{
	Use:   "run <asn> <endpoint>-<relation>...",
	Short: "Run the router",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := state.ParseConfig(args)
		if err != nil {
			return err
		}

		opts, err := state.LoadRuntimeOptions(optionsPath)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			opts.Verbose = true
		}
		if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
			opts.LogFile = logFile
		}

		logger, err := buildLogger(cfg.ASN, opts)
		if err != nil {
			return err
		}

		if debugAddr != "" {
			go func() {
				logger.Error("debug server exited", "err", http.ListenAndServe(debugAddr, nil))
			}()
		}

		links := make([]link.Link, 0, len(cfg.Links))
		for _, spec := range cfg.Links {
			l, err := link.Dial(link.Endpoint(spec.Endpoint), spec.Relation)
			if err != nil {
				for _, opened := range links {
					opened.Close()
				}
				return err
			}
			links = append(links, l)
		}
		defer func() {
			for _, l := range links {
				l.Close()
			}
		}()

		r := router.New(cfg.ASN, links, logger)

		ctx, cancel := context.WithCancelCause(context.Background())
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case <-sig:
				cancel(errors.New("received shutdown signal"))
			case <-ctx.Done():
			}
		}()

		logger.Info("router started", "asn", cfg.ASN, "links", len(links))
		if err := r.Run(ctx); err != nil {
			return err
		}
		logger.Info("router stopped")
		return nil
	},
}

// buildLogger sets up a colored tint handler on stderr, fanned out with an
// optional plain-text file sink.
func buildLogger(asn int, opts state.RuntimeOptions) (*slog.Logger, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: asnPrefix(asn),
		}),
	}

	if opts.LogFile != "" {
		if err := os.MkdirAll(path.Dir(opts.LogFile), 0700); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

func asnPrefix(asn int) string {
	return "as" + strconv.Itoa(asn)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("verbose", "v", false, "verbose output")
	runCmd.Flags().StringP("log-file", "l", "", "also write logs to this file")
	runCmd.Flags().StringVarP(&optionsPath, "options", "o", "", "runtime options YAML file")
	runCmd.Flags().StringVar(&debugAddr, "debug-addr", "", "if set, serve /debug/metrics on this address")
}
