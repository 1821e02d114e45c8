package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"marketmirror/internal/alert"
	"marketmirror/internal/analyzer"
	"marketmirror/internal/config"
	"marketmirror/internal/ingest"
	"marketmirror/internal/monitor"
	"marketmirror/internal/recommend"
	"marketmirror/internal/recorder"
	"marketmirror/internal/symbols"
	"marketmirror/pkg/model"
)

var (
	cfgFile    string
	marketType string
	symbolList string
	timeframe  string
	format     string
	interval   string
	alertSpecs []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marketmirror",
		Short: "Market analysis and alerting over synthetic market feeds",
		Long: `MarketMirror analyzes crypto, stock, and e-commerce price series:
technical indicators, pattern detection, trend and risk classification,
recommendations, and threshold alert monitoring.

Examples:
  marketmirror analyze --market crypto --symbols BTC,ETH,SOL
  marketmirror monitor --alert price:BTC:above:70000 --alert change:ETH:above:5
  marketmirror report --market stocks --timeframe 1m`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&marketType, "market", "", "market type: crypto, stocks, ecommerce")
	rootCmd.PersistentFlags().StringVar(&symbolList, "symbols", "", "comma-separated symbols (default from config)")
	rootCmd.PersistentFlags().StringVar(&timeframe, "timeframe", "", "history timeframe: 1d, 7d, 1m, 3m")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one full market analysis",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the market and fire threshold alerts",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().StringVar(&interval, "interval", "", "check interval, e.g. 10s (default from config)")
	monitorCmd.Flags().StringArrayVar(&alertSpecs, "alert", nil,
		"alert spec kind:symbol:condition:threshold (kinds: price, change, volume, technical:<indicator>)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print a natural-language market report",
		RunE:  runReport,
	}

	symbolsCmd := &cobra.Command{
		Use:   "symbols",
		Short: "List supported symbols per market",
		RunE:  runSymbols,
	}

	rootCmd.AddCommand(analyzeCmd, monitorCmd, reportCmd, symbolsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with CLI flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if marketType != "" {
		cfg.Market.Type = marketType
	}
	if symbolList != "" {
		cfg.Market.Symbols = strings.Split(symbolList, ",")
	}
	if timeframe != "" {
		cfg.Market.Timeframe = timeframe
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted.")
		cancel()
	}()
	return ctx, cancel
}

// fetchAssets pulls snapshots symbol by symbol with a progress bar
func fetchAssets(ctx context.Context, cfg *config.Config, showProgress bool) ([]model.Asset, error) {
	svc := ingest.NewService(cfg.Ingest.RateLimit, ingest.WithTTL(cfg.Ingest.CacheTTL))
	market := symbols.Market(cfg.Market.Type)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(cfg.Market.Symbols),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Fetching"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]█[reset]",
				SaucerHead:    "[green]█[reset]",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	var assets []model.Asset
	for i, sym := range cfg.Market.Symbols {
		batch, err := svc.Fetch(ctx, market, []string{sym}, cfg.Market.Timeframe)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", sym, err)
		}
		assets = append(assets, batch...)
		if bar != nil {
			bar.Set(i + 1)
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	return assets, nil
}

func runAnalysis(ctx context.Context, cfg *config.Config, showProgress bool) (*model.AnalysisResult, error) {
	assets, err := fetchAssets(ctx, cfg, showProgress)
	if err != nil {
		return nil, err
	}
	result, err := analyzer.Analyze(assets)
	if err != nil {
		return nil, fmt.Errorf("analyzing: %w", err)
	}
	result.Recommendations = recommend.Generate(result)
	return result, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runAnalysis(ctx, cfg, format != "json")
	if err != nil {
		return err
	}

	if rec, err := openRecorder(cfg); err != nil {
		return err
	} else if rec != nil {
		defer rec.Close()
		if err := rec.RecordRun(result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: recording run failed: %v\n", err)
		}
	}

	if format == "json" {
		return outputJSON(result)
	}
	return outputTables(result)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runAnalysis(ctx, cfg, false)
	if err != nil {
		return err
	}

	fmt.Println(analyzer.GenerateReport(result))
	return nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("parsing interval: %w", err)
		}
		cfg.Monitor.Interval = d
	}

	engine := alert.NewEngine()
	for _, spec := range alertSpecs {
		if err := registerAlert(engine, spec); err != nil {
			return err
		}
	}
	if len(engine.Active()) == 0 {
		return fmt.Errorf("no alerts registered, use --alert")
	}

	rec, err := openRecorder(cfg)
	if err != nil {
		return err
	}
	if rec != nil {
		defer rec.Close()
	}

	svc := ingest.NewService(cfg.Ingest.RateLimit, ingest.WithTTL(cfg.Ingest.CacheTTL))
	market := symbols.Market(cfg.Market.Type)
	source := func(ctx context.Context) ([]model.Asset, error) {
		return svc.Fetch(ctx, market, cfg.Market.Symbols, cfg.Market.Timeframe)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Monitoring %s (%s) every %s, %d alert(s) registered\n",
		strings.Join(cfg.Market.Symbols, ","), cfg.Market.Type,
		cfg.Monitor.Interval, len(engine.Active()))

	m := monitor.New(source, engine, rec, cfg.Monitor.Interval)
	m.Run(ctx)

	history := engine.History(cfg.Monitor.HistoryLimit)
	fmt.Printf("\n%d alert(s) triggered this session\n", len(history))
	for _, t := range history {
		fmt.Printf("  %s  %s (value %.2f)\n", t.TriggeredAt.Format("15:04:05"), t.Message, t.CurrentValue)
	}
	return nil
}

func runSymbols(cmd *cobra.Command, args []string) error {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Market", "Symbols"}),
	)
	for _, m := range symbols.Markets() {
		table.Append([]string{string(m), strings.Join(symbols.Supported(m), ", ")})
	}
	table.Render()
	return nil
}

// registerAlert parses kind:symbol:condition:threshold and registers it.
// Technical alerts take kind "technical:<indicator>".
func registerAlert(engine *alert.Engine, spec string) error {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 {
		return fmt.Errorf("invalid alert spec %q, want kind:symbol:condition:threshold", spec)
	}

	kind := parts[0]
	var indicatorName string
	if kind == "technical" && len(parts) == 5 {
		indicatorName = parts[1]
		parts = parts[1:]
	}

	sym := parts[1]
	condition := alert.Condition(parts[2])
	threshold, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return fmt.Errorf("invalid threshold in alert spec %q: %w", spec, err)
	}

	switch kind {
	case "price":
		engine.AddPrice(sym, condition, threshold)
	case "change", "change_percent":
		engine.AddChange(sym, condition, threshold, "24h")
	case "volume":
		engine.AddVolume(sym, condition, threshold)
	case "technical":
		if indicatorName == "" {
			return fmt.Errorf("technical alert spec %q needs an indicator, e.g. technical:rsi:BTC:above:70", spec)
		}
		engine.AddTechnical(sym, indicatorName, condition, threshold)
	default:
		return fmt.Errorf("%w: %s", alert.ErrUnsupportedAlertType, kind)
	}
	return nil
}

func openRecorder(cfg *config.Config) (recorder.Recorder, error) {
	if cfg.Recorder.DBPath == "" {
		return nil, nil
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Recorder.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening recorder: %w", err)
	}
	return rec, nil
}

func outputJSON(result *model.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputTables(result *model.AnalysisResult) error {
	ov := result.MarketOverview
	fmt.Printf("Market: %s sentiment (%s), avg change %.2f%%, %d gainers / %d losers\n\n",
		ov.Sentiment, ov.SentimentStrength, ov.AverageChange, ov.Gainers, ov.Losers)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Symbol", "Price", "Change", "Trend", "Risk", "Sentiment", "Patterns"}),
	)
	for _, a := range result.IndividualAnalysis {
		patterns := strings.Join(a.Patterns, ", ")
		if patterns == "" {
			patterns = "-"
		}
		table.Append([]string{
			a.Symbol,
			fmt.Sprintf("%.2f", a.CurrentPrice),
			fmt.Sprintf("%+.2f%%", a.PriceChangePct),
			string(a.TrendDirection),
			string(a.RiskLevel),
			fmt.Sprintf("%.2f", a.SentimentScore),
			patterns,
		})
	}
	table.Render()

	if comp := result.ComparativeAnalysis; comp != nil {
		fmt.Printf("\nBest: %s (%+.2f%%)  Worst: %s (%+.2f%%)  Most stable: %s  Most volatile: %s\n",
			comp.BestPerformer.Symbol, comp.BestPerformer.Change,
			comp.WorstPerformer.Symbol, comp.WorstPerformer.Change,
			comp.MostStable.Symbol, comp.MostVolatile.Symbol)
	}

	if risk := result.RiskAssessment; risk != nil {
		fmt.Printf("Overall risk: %s", risk.OverallRiskLevel)
		if len(risk.RiskFactors) > 0 {
			fmt.Printf(" (%s)", strings.Join(risk.RiskFactors, ", "))
		}
		fmt.Println()
	}

	if len(result.Recommendations) > 0 {
		fmt.Println()
		recTable := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Scope", "Symbol", "Action", "Confidence", "Reasoning"}),
		)
		for _, r := range result.Recommendations {
			sym := r.Symbol
			if sym == "" {
				sym = "-"
			}
			reasoning := r.Reasoning
			if len(reasoning) > 55 {
				reasoning = reasoning[:55] + "..."
			}
			recTable.Append([]string{
				string(r.Scope), sym, string(r.Action), string(r.Confidence), reasoning,
			})
		}
		recTable.Render()
	}

	return nil
}
