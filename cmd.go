package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"absviz/internal/absfn"
	"absviz/internal/config"
	"absviz/internal/insight"
	"absviz/internal/logging"
)

// app carries state shared by every command: its own viper instance so tests
// can build independent command trees, and the parameter flags.
type app struct {
	v       *viper.Viper
	cfgFile string
	a, h, k float64
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	d := absfn.DefaultParams()

	root := &cobra.Command{
		Use:   "absviz",
		Short: "Interactive explorer for f(x) = a|x - h| + k",
		Long: `absviz draws the absolute value function f(x) = a|x - h| + k in the
terminal. Adjust a, h and k with the keyboard and watch the graph, the vertex
and a short generated insight about the current shape follow along.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runTUI,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/absviz/config.yaml)")
	pf.Float64Var(&a.a, "a", d.A, "vertical stretch/compression and reflection")
	pf.Float64Var(&a.h, "h", d.H, "horizontal shift")
	pf.Float64Var(&a.k, "k", d.K, "vertical shift")
	pf.String("model", "", "generative model used for insights")
	pf.String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	_ = a.v.BindPFlag("insight.model", pf.Lookup("model"))
	_ = a.v.BindPFlag("logging.level", pf.Lookup("log-level"))

	root.AddCommand(a.renderCmd(), a.samplesCmd(), a.insightCmd())
	return root
}

// loadConfig reads the optional config file and returns the validated config.
// A missing default config file is fine; a missing explicit one is not.
func (a *app) loadConfig() (*config.Config, error) {
	config.SetDefaultsOn(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(config.ConfigDir())
		a.v.AddConfigPath(".")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// params returns the parameters given on the command line.
func (a *app) params() (absfn.Params, error) {
	p := absfn.Params{A: a.a, H: a.h, K: a.k}
	for _, key := range absfn.AllParams {
		if v := p.Get(key); math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("parameter %s must be a finite number, got %v", key, v)
		}
	}
	return p, nil
}

func insightOptions(c config.InsightConfig) insight.Options {
	return insight.Options{
		Debounce:        c.Debounce,
		RequestTimeout:  c.RequestTimeout,
		Model:           c.Model,
		Temperature:     float32(c.Temperature),
		MaxOutputTokens: int32(c.MaxOutputTokens),
	}
}

// newPipeline wires the insight pipeline from configuration. It returns nil
// when insights are disabled.
func newPipeline(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*insight.Pipeline, error) {
	if !cfg.Insight.Enabled {
		logger.Info("insights disabled by configuration")
		return nil, nil
	}
	gen, err := insight.NewGenerator(ctx, cfg.Insight.APIKey)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		logger.Warn("no API key configured, insights will not be requested")
	}
	return insight.New(gen, insightOptions(cfg.Insight), logger), nil
}

// ──────────────────────────── TUI ────────────────────────────

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	p, err := a.params()
	if err != nil {
		return err
	}
	// Start on the slider grid so the first key press moves by exactly one step.
	for _, key := range absfn.AllParams {
		p = p.With(key, sliderFor(key).snap(p.Get(key)))
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger.Info("absviz starting", "params", p, "model", cfg.Insight.Model)

	pipeline, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if pipeline != nil {
		defer pipeline.Close()
	}

	opts := []tea.ProgramOption{tea.WithContext(cmd.Context())}
	if cfg.TUI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(newModel(pipeline, p), opts...).Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// ──────────────────────────── render ────────────────────────────

func (a *app) renderCmd() *cobra.Command {
	var width, height, probe int
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the equation, vertex and graph once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.params()
			if err != nil {
				return err
			}
			if width < gutterW+8 || height < minChartRows {
				return fmt.Errorf("chart must be at least %dx%d, got %dx%d", gutterW+8, minChartRows, width, height)
			}
			if probe >= absfn.SampleCount() {
				return fmt.Errorf("probe index must be below %d, got %d", absfn.SampleCount(), probe)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStatic(p, probe, width, height))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 64, "chart width in cells")
	cmd.Flags().IntVar(&height, "height", 20, "chart height in cells")
	cmd.Flags().IntVar(&probe, "probe", -1, "sample index to highlight (-1 for none)")
	return cmd
}

// ──────────────────────────── samples ────────────────────────────

// sampleSet is the serialized form of `absviz samples`.
type sampleSet struct {
	Equation string            `json:"equation" yaml:"equation"`
	Vertex   string            `json:"vertex" yaml:"vertex"`
	Params   absfn.Params      `json:"params" yaml:"params"`
	Samples  []absfn.DataPoint `json:"samples" yaml:"samples"`
}

func (a *app) samplesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Print the sampled points of f over [-15, 15]",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.params()
			if err != nil {
				return err
			}
			return writeSamples(cmd.OutOrStdout(), p, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, yaml or json")
	return cmd
}

func writeSamples(w io.Writer, p absfn.Params, format string) error {
	set := sampleSet{
		Equation: absfn.Equation(p),
		Vertex:   absfn.VertexLabel(p),
		Params:   p,
		Samples:  absfn.Samples(p),
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
			Headers("x", "f(x)").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return sectionStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			})
		for _, s := range set.Samples {
			t.Row(strconv.FormatFloat(s.X, 'f', 2, 64), strconv.FormatFloat(s.Y, 'f', 2, 64))
		}
		_, err := fmt.Fprintf(w, "%s   vertex %s\n%s\n", set.Equation, set.Vertex, t.Render())
		return err
	default:
		return fmt.Errorf("unknown format %q (want table, yaml or json)", format)
	}
}

// ──────────────────────────── insight ────────────────────────────

func (a *app) insightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insight",
		Short: "Request one insight for the given parameters and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			p, err := a.params()
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			if !cfg.Insight.Enabled {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), insight.DisabledText)
				return err
			}
			gen, err := insight.NewGenerator(cmd.Context(), cfg.Insight.APIKey)
			if err != nil {
				return err
			}

			text, err := insight.FetchOnce(cmd.Context(), gen, insightOptions(cfg.Insight), p)
			// The fallback text is still printed; the error only goes to the log.
			logInsightError(logger, err)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

// logInsightError records why a fallback text was printed. A missing key is
// a setup problem, not a failed request.
func logInsightError(logger *logging.Logger, err error) {
	switch {
	case err == nil:
	case errors.Is(err, insight.ErrNotConfigured):
		logger.Warn("insight skipped, no API key configured")
	default:
		logger.Error("insight request failed", "error", err)
	}
}
