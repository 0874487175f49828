package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/specroute/pkg/adapter"
	"github.com/zen-systems/specroute/pkg/aggregate"
	"github.com/zen-systems/specroute/pkg/bench"
	"github.com/zen-systems/specroute/pkg/config"
	"github.com/zen-systems/specroute/pkg/evidence"
	"github.com/zen-systems/specroute/pkg/invoker"
	"github.com/zen-systems/specroute/pkg/report"
	"github.com/zen-systems/specroute/pkg/router"
)

var (
	bundleFile  string
	routingFile string
	runsDir     string
	debugFlag   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "specroute",
		Short: "Route queries among local specialist models and benchmark them",
		Long: `Specroute routes queries to small specialist models served by a local
	Ollama (or cloud baselines), runs benchmark suites through the chosen
	routing strategy, and aggregates scored results across runs.`,
	}

	rootCmd.PersistentFlags().StringVar(&bundleFile, "bundle", "", "path to bundle YAML (default ~/.specroute/bundle.yaml)")
	rootCmd.PersistentFlags().StringVar(&routingFile, "routing", "", "path to routing YAML (default ~/.specroute/routing.yaml)")
	rootCmd.PersistentFlags().StringVar(&runsDir, "runs", "", "run storage directory (default ~/.specroute/runs)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(trendCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var suiteFile string
	var backendName string
	var parallel int
	var slots int64
	var noSave bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark suite through the configured routing strategy",
		Long: `Routes every test case, invokes the selected specialist, scores the
	response, and prints a markdown report. Results are stored under the
	runs directory for later aggregation unless --no-save is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, suite, err := loadRunInputs(suiteFile)
			if err != nil {
				return err
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}
			backend, ok := adapters[backendName]
			if !ok {
				return fmt.Errorf("backend %q not available (have: %s)", backendName, adapterNames(adapters))
			}

			inv := invoker.New(backend,
				invoker.WithConcurrencyLimit(slots),
				invoker.WithDebug(debugFlag))
			defer inv.Close()

			runner := bench.NewRunner(
				router.New(adapters, router.WithDebug(debugFlag)),
				inv,
				bench.WithParallelism(parallel),
				bench.WithRunnerDebug(debugFlag))

			bundle := cfg.Aliases.ResolveBundle(cfg.Bundle)
			run := runner.Execute(cmd.Context(), suite, bundle, cfg.Router)

			if !noSave {
				store, err := evidence.NewStore(resolveRunsDir(cfg))
				if err != nil {
					return fmt.Errorf("failed to open run store: %w", err)
				}
				path, err := store.Save(run)
				if err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Saved run to %s\n", path)
			}

			fmt.Println(report.RunMarkdown(run))
			return nil
		},
	}

	cmd.Flags().StringVarP(&suiteFile, "suite", "f", "", "suite YAML path (default: built-in smoke suite)")
	cmd.Flags().StringVar(&backendName, "backend", "ollama", "generation backend (ollama, mock, anthropic, openai, google)")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "worker count (1 = sequential)")
	cmd.Flags().Int64Var(&slots, "slots", 2, "concurrent invocation slots at the backend")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	return cmd
}

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route [query]",
		Short: "Show the routing decision for one query without invoking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}

			r := router.New(adapters, router.WithDebug(debugFlag))
			d := r.Decide(cmd.Context(), args[0], cfg.Bundle, cfg.Router, "")

			data, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			if !d.Routed() {
				return fmt.Errorf("query could not be routed")
			}
			return nil
		},
	}
	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the specialist bundle and routing strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Bundle: %s  Strategy: %s\n\n", cfg.Bundle.Name, cfg.Router.Strategy)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tPARAMS\tDOMAINS\tKEYWORDS\tFALLBACK")
			for _, s := range cfg.Bundle.Specialists {
				fallback := ""
				if s.Fallback {
					fallback = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%.1fB\t%s\t%s\t%s\n",
					s.ID,
					cfg.Aliases.Resolve(s.Model),
					s.ParamsBillions,
					strings.Join(s.Domains, ", "),
					strings.Join(s.Keywords, ", "),
					fallback)
			}
			return w.Flush()
		},
	}
}

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Aggregate stored runs per test case, with confidence intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := loadStoredRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return fmt.Errorf("no stored runs to summarize")
			}

			merged := aggregate.MergeRuns(runs)
			trend := aggregate.PassRateTrend(runs)
			fmt.Println(report.AggregateMarkdown(merged, trend))
			return nil
		},
	}
}

func trendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Fit a pass-rate trend over stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := loadStoredRuns()
			if err != nil {
				return err
			}

			t := aggregate.PassRateTrend(runs)
			if t.Direction == aggregate.TrendInsufficient {
				fmt.Printf("Insufficient data: %d usable run(s), need at least 2.\n", t.Points)
				return nil
			}
			fmt.Printf("Pass rate is %s: %+.4f per hour over %d runs.\n", t.Direction, t.Slope, t.Points)
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if bundleFile != "" {
		bundle, err := config.LoadBundle(bundleFile)
		if err != nil {
			return nil, err
		}
		cfg.Bundle = bundle
	}
	if routingFile != "" {
		rc, err := config.LoadRouterConfig(routingFile)
		if err != nil {
			return nil, err
		}
		cfg.Router = rc
	}
	return cfg, nil
}

func loadRunInputs(suiteFile string) (*config.Config, *config.Suite, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	suite := config.DefaultSuite()
	if suiteFile != "" {
		suite, err = config.LoadSuite(suiteFile)
		if err != nil {
			return nil, nil, err
		}
	}
	return cfg, suite, nil
}

func loadStoredRuns() ([]*bench.Run, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := evidence.NewStore(resolveRunsDir(cfg))
	if err != nil {
		return nil, err
	}
	return store.LoadAll()
}

func resolveRunsDir(cfg *config.Config) string {
	if runsDir != "" {
		return runsDir
	}
	return filepath.Join(cfg.ConfigDir, "runs")
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	adapters["ollama"] = adapter.NewOllamaAdapter(cfg.OllamaURL)
	adapters["mock"] = adapter.NewMockAdapter()

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}
	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}
	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	return adapters, nil
}

func adapterNames(adapters map[string]adapter.Adapter) string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
