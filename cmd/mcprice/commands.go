package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hanlinyan-dev/option-pricing/internal/audit"
	"github.com/hanlinyan-dev/option-pricing/internal/config"
	"github.com/hanlinyan-dev/option-pricing/internal/logger"
	"github.com/hanlinyan-dev/option-pricing/internal/models"
	"github.com/hanlinyan-dev/option-pricing/internal/pricing"
	"github.com/hanlinyan-dev/option-pricing/internal/version"
)

type rootFlags struct {
	configFile string
	logLevel   string
	mode       string
	workers    int
	generator  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "mcprice",
		Short:         "Monte Carlo pricer for European options under CEV dynamics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default config.yaml if present)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.log_level")
	root.PersistentFlags().StringVar(&flags.mode, "mode", "", "execution mode: auto, cpu or parallel")
	root.PersistentFlags().IntVar(&flags.workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	root.PersistentFlags().StringVar(&flags.generator, "generator", "", "normal generator: gonum or boxmuller")

	root.AddCommand(newPriceCmd(flags), newBatchesCmd(flags), newVersionCmd())
	return root
}

// session is the wired service for one command run
type session struct {
	cfg     *config.Config
	service *pricing.Service
	auditor audit.Auditor
}

func (s *session) close() {
	if err := s.auditor.Close(); err != nil {
		logger.Warn.Printf("⚠️ AUDIT: %v", err)
	}
	logger.Close()
}

func openSession(flags *rootFlags) (*session, error) {
	cfg, err := config.LoadAndValidate(flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.LogLevel = flags.logLevel
	}
	if flags.mode != "" {
		cfg.Engine.ExecutionMode = flags.mode
	}
	if flags.workers != 0 {
		cfg.Engine.Workers = flags.workers
	}
	if flags.generator != "" {
		cfg.Engine.Generator = flags.generator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.InitWith(logger.Config{
		Level:      cfg.Logging.LogLevel,
		File:       cfg.Logging.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	engine, err := pricing.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	var auditor audit.Auditor = audit.Nop{}
	if cfg.Audit.Enabled {
		rec, err := audit.NewRecorder(cfg.Audit.File, audit.DefaultBufferSize)
		if err != nil {
			return nil, err
		}
		auditor = rec
	}

	return &session{
		cfg:     cfg,
		service: pricing.NewService(engine, cfg, nil, auditor),
		auditor: auditor,
	}, nil
}

func newPriceCmd(flags *rootFlags) *cobra.Command {
	var (
		req     models.PricingRequest
		seed    uint64
		both    bool
		compare bool
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one option",
		Example: `  mcprice price --S0 60 --K 65 --T 0.25 --r 0.08 --sig 0.3 --type put
  mcprice price --S0 100 --K 100 --T 1 --sig 0.2 --both --compare --paths 100000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			req.Compare = compare

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var results []models.PricingResult
			if both {
				results, err = s.service.PriceBoth(ctx, req)
			} else {
				var r models.PricingResult
				r, err = s.service.Price(ctx, req)
				results = []models.PricingResult{r}
			}
			if err != nil {
				return err
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.S0, "S0", 0, "initial underlying price")
	f.Float64Var(&req.K, "K", 0, "strike")
	f.Float64Var(&req.T, "T", 0, "maturity in years")
	f.Float64Var(&req.R, "r", 0, "risk-free rate")
	f.Float64Var(&req.Sig, "sig", 0, "volatility")
	f.Float64Var(&req.Beta, "beta", 1, "CEV elasticity in (0, 1]")
	f.StringVar(&req.OptionType, "type", "call", "call or put")
	f.IntVar(&req.Steps, "steps", 0, "time steps N (default from config)")
	f.IntVar(&req.Paths, "paths", 0, "simulated paths NSim (default from config)")
	f.Uint64Var(&seed, "seed", 0, "master seed (default from config)")
	f.BoolVar(&both, "both", false, "price call and put on the same paths")
	f.BoolVar(&compare, "compare", false, "print the Black-Scholes price, delta and gamma next to the estimate")
	for _, name := range []string{"S0", "K", "T", "sig"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newBatchesCmd(flags *rootFlags) *cobra.Command {
	var steps, paths int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Price call and put for every configured batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := s.service.RunBatches(ctx, steps, paths)
			if len(results) > 0 {
				printResults(cmd.OutOrStdout(), results)
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "N", 0, "time steps (default from config)")
	cmd.Flags().IntVarP(&paths, "paths", "n", 0, "simulated paths (default from config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}

func printResults(w io.Writer, results []models.PricingResult) {
	last := ""
	for _, r := range results {
		if r.Name != "" && r.Name != last {
			fmt.Fprintf(w, "\n%s\n", r.Name)
			last = r.Name
		}
		fmt.Fprintf(w, "%-4s price %s  sd %s  se %s  origin hits %s",
			r.OptionType, r.Display["price"].Display, r.Display["standard_deviation"].Display,
			r.Display["standard_error"].Display, r.Display["origin_hits"].Display)
		if v, ok := r.Display["analytic_price"]; ok {
			fmt.Fprintf(w, "  exact %s", v.Display)
		}
		if v, ok := r.Display["analytic_delta"]; ok {
			fmt.Fprintf(w, "  delta %s", v.Display)
		}
		if v, ok := r.Display["analytic_gamma"]; ok {
			fmt.Fprintf(w, "  gamma %s", v.Display)
		}
		if v, ok := r.Display["parity_gap"]; ok {
			fmt.Fprintf(w, "  parity gap %s", v.Display)
		}
		fmt.Fprintf(w, "  (%d paths, %d steps, %.1f ms)\n", r.Paths, r.Steps, r.DurationMs)
	}
}
