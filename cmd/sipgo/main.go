package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/sipgo/internal/breakeven"
	"github.com/rgehrsitz/sipgo/internal/cache"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/logging"
	"github.com/rgehrsitz/sipgo/internal/output"
	"github.com/rgehrsitz/sipgo/internal/server"
	"github.com/rgehrsitz/sipgo/internal/transform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sipgo",
		Short:         "Goal-based SIP planner",
		Long:          "Projects the monthly SIP each financial goal needs, with glide paths, step-ups, linked assets and EPF/NPS streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		calculateCmd(),
		scheduleCmd(),
		validateCmd(),
		compareCmd(),
		optimizeCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sipgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// engineOptions are the flags every projecting command shares
type engineOptions struct {
	asOf  string
	debug bool
}

func (o *engineOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.asOf, "as-of", "", "Project as of this date (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "Enable debug output for detailed calculations")
}

// newEngine builds an engine with the plan's overrides, the as-of clock and a debug logger
func (o *engineOptions) newEngine(cmd *cobra.Command, cfg *domain.Configuration) (*calculation.CalculationEngine, error) {
	engine := calculation.NewCalculationEngineWithSettings(cfg.EngineSettings())

	if o.asOf != "" {
		d, err := domain.ParseDate(o.asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid --as-of: %w", err)
		}
		engine.Clock = func() time.Time { return d.Time }
	}

	if o.debug {
		engine.SetLogger(logging.EngineLogger{Log: logging.New(cmd.ErrOrStderr(), true)})
	}
	return engine, nil
}

func loadPlan(path string) (*domain.Configuration, error) {
	return config.NewInputParser().LoadFromFile(path)
}

// buildReport projects every goal of a plan
func buildReport(ctx context.Context, engine *calculation.CalculationEngine, cfg *domain.Configuration, withSchedules bool) (*domain.PlanReport, error) {
	results, err := engine.ProjectAll(ctx, cfg)
	if err != nil {
		return nil, err
	}

	report := &domain.PlanReport{
		CalculationID:     uuid.NewString(),
		AsOf:              engine.Now(),
		ReturnAssumptions: cfg.ReturnAssumptions,
		Projections:       results,
	}
	if withSchedules {
		for i := range cfg.Goals {
			report.Schedules = append(report.Schedules, domain.GoalSchedule{
				GoalID: cfg.Goals[i].ID,
				Rows:   engine.Schedule(&cfg.Goals[i], results[i], cfg.ReturnAssumptions),
			})
		}
	}
	return report, nil
}

// writeReport renders report to the output file, or to w when path is empty.
// Binary formats without a path go to a timestamped file in the working directory.
func writeReport(w io.Writer, report *domain.PlanReport, format, path string) error {
	if path == "" {
		f := output.GetFormatterByName(format)
		if f == nil || !output.IsBinary(f) {
			return output.GenerateReport(w, report, format)
		}
		written, err := output.WriteFormatted(f, report, ".")
		if err != nil {
			return fmt.Errorf("%s formatter failed: %w", f.Name(), err)
		}
		fmt.Fprintf(w, "Report written to %s\n", written)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.GenerateReport(f, report, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Report written to %s\n", path)
	return nil
}

func calculateCmd() *cobra.Command {
	var opts engineOptions
	var format, outputFile string
	var withSchedule bool

	cmd := &cobra.Command{
		Use:   "calculate [plan-file]",
		Short: "Calculate the monthly SIP for every goal in a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.GetFormatterByName(format)
			if f == nil {
				return output.UnsupportedFormatError(format)
			}
			// A schedule export is empty without schedules
			withSchedule = withSchedule || f.Name() == "schedule-csv"

			cfg, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			engine, err := opts.newEngine(cmd, cfg)
			if err != nil {
				return err
			}

			report, err := buildReport(cmd.Context(), engine, cfg, withSchedule)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format, outputFile)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, console-lite, csv, schedule-csv, html, json, pdf)")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&withSchedule, "schedule", false, "Include the year-by-year contribution schedule")
	return cmd
}

func scheduleCmd() *cobra.Command {
	var opts engineOptions
	var format, outputFile, goalID string

	cmd := &cobra.Command{
		Use:   "schedule [plan-file]",
		Short: "Print the year-by-year contribution schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			if goalID != "" {
				goal, ok := cfg.FindGoal(goalID)
				if !ok {
					return fmt.Errorf("goal %s not found in configuration", goalID)
				}
				cfg.Goals = []domain.Goal{*goal}
			}

			engine, err := opts.newEngine(cmd, cfg)
			if err != nil {
				return err
			}
			report, err := buildReport(cmd.Context(), engine, cfg, true)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format, outputFile)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&goalID, "goal", "", "Only this goal")
	cmd.Flags().StringVarP(&format, "format", "f", "schedule-csv", "Output format (schedule-csv, console, json, html, pdf)")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write the schedule to this file instead of stdout")
	return cmd
}

func validateCmd() *cobra.Command {
	var normalized string

	cmd := &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPlan(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file %s is valid (%d goals, %d assets)\n", args[0], len(cfg.Goals), len(cfg.Assets))
			for _, asset := range cfg.Assets {
				if !asset.Category.Known() {
					fmt.Fprintf(out, "Warning: asset %s has unknown category %q and grows at the debt rate\n", asset.ID, asset.Category)
				}
			}
			for i := range cfg.Goals {
				goal := &cfg.Goals[i]
				if len(goal.LinkedAssets) > 0 {
					fmt.Fprintf(out, "  %s: %s pledged from %d assets\n", goal.ID, output.FormatCurrency(goal.TotalPledged()), len(goal.LinkedAssets))
				}
			}

			if normalized != "" {
				if err := output.SaveConfiguration(cfg, normalized); err != nil {
					return fmt.Errorf("failed to write normalized plan: %w", err)
				}
				fmt.Fprintf(out, "Normalized plan written to %s\n", normalized)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&normalized, "write-normalized", "", "Write the plan with defaults applied to this file")
	return cmd
}

func compareCmd() *cobra.Command {
	var opts engineOptions
	var goalID, with, format string
	var transforms []string
	var listTemplates bool

	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Compare a goal against what-if templates and transforms",
		Args: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listTemplates {
				fmt.Fprintln(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}

			if goalID == "" {
				return fmt.Errorf("--goal is required")
			}
			templates := transform.ParseTemplateList(with)
			if len(templates) == 0 && len(transforms) == 0 {
				return fmt.Errorf("at least one of --with or --transform is required")
			}

			cfg, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			engine, err := opts.newEngine(cmd, cfg)
			if err != nil {
				return err
			}

			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), cfg, compare.CompareOptions{
				GoalID:     goalID,
				Templates:  templates,
				Transforms: transforms,
			})
			if err != nil {
				return err
			}
			compSet.ConfigPath = args[0]

			switch format {
			case "table":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(compSet))
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			default:
				return fmt.Errorf("unsupported format %q (table, compact, csv, json)", format)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&goalID, "goal", "", "Goal id to compare (required)")
	cmd.Flags().StringVar(&with, "with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArrayVar(&transforms, "transform", nil, "Ad-hoc transform, e.g. set_step_up:percent=10 (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List all available what-if templates")
	return cmd
}

func optimizeCmd() *cobra.Command {
	var opts engineOptions
	var goalID, budget, target, format string
	var maxDelay int

	cmd := &cobra.Command{
		Use:   "optimize [plan-file]",
		Short: "Find the change that brings a goal within a monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if goalID == "" {
				return fmt.Errorf("--goal is required")
			}
			amount, err := decimal.NewFromString(budget)
			if err != nil {
				return fmt.Errorf("invalid --budget %q: %w", budget, err)
			}
			t, err := breakeven.ParseTarget(target)
			if err != nil {
				return err
			}

			cfg, err := loadPlan(args[0])
			if err != nil {
				return err
			}
			engine, err := opts.newEngine(cmd, cfg)
			if err != nil {
				return err
			}

			constraints := breakeven.DefaultConstraints(goalID, amount)
			constraints.MaxDelayMonths = maxDelay
			req := breakeven.OptimizationRequest{Config: cfg, Target: t, Constraints: constraints}

			solver := breakeven.NewDefaultSolver(engine)
			var result *breakeven.MultiDimensionalResult
			if t == breakeven.OptimizeAll {
				result, err = solver.OptimizeAll(cmd.Context(), req)
			} else {
				var single *breakeven.OptimizationResult
				single, err = solver.Optimize(cmd.Context(), req)
				if err == nil {
					goal, _ := cfg.FindGoal(goalID)
					result = &breakeven.MultiDimensionalResult{
						GoalID:   goalID,
						GoalName: goal.DisplayName(),
						Budget:   amount,
						Base:     engine.Project(goal, cfg.ReturnAssumptions, cfg.AssetRegistry(), cfg.RetirementContributions),
						Results:  []breakeven.OptimizationResult{*single},
					}
					result.Recommendations = breakeven.Recommend(result)
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
			case "json":
				s, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			default:
				return fmt.Errorf("unsupported format %q (table, json)", format)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&goalID, "goal", "", "Goal id to optimize (required)")
	cmd.Flags().StringVar(&budget, "budget", "", "Monthly SIP budget in rupees")
	cmd.Flags().StringVar(&target, "target", "all", "Lever to solve for (target_date, step_up, equity, target_amount, all)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().IntVar(&maxDelay, "max-delay-months", 120, "Furthest the target date may move")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, redisAddr string
	var cacheTTL, timeout time.Duration
	var jsonLogs, debugMode bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var log zerolog.Logger
			if jsonLogs {
				log = logging.NewJSON(cmd.ErrOrStderr(), debugMode)
			} else {
				log = logging.New(cmd.ErrOrStderr(), debugMode)
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logging.EngineLogger{Log: log})

			srv := server.NewServer(engine, log)
			srv.CacheTTL = cacheTTL
			srv.Timeout = timeout
			srv.Cache = newCache(cmd.Context(), redisAddr, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info().Msg("shutting down")
				return srv.Shutdown()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the projection cache (in-memory when empty)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 10*time.Minute, "How long cached projections are kept")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-request calculation budget")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Log as JSON instead of console text")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	return cmd
}

// newCache connects to Redis when an address is given, falling back to memory
func newCache(ctx context.Context, redisAddr string, log zerolog.Logger) cache.Cache {
	if redisAddr == "" {
		return cache.NewMemoryCache()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rc := cache.NewRedisCache(redisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", redisAddr).Msg("redis unavailable, using in-memory cache")
		rc.Close()
		return cache.NewMemoryCache()
	}

	log.Info().Str("addr", redisAddr).Msg("using redis projection cache")
	return rc
}
