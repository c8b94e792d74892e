package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/collector"
	"github.com/secwatch/sectest-insights/pkg/config"
	"github.com/secwatch/sectest-insights/pkg/datasource"
	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/notifier"
	"github.com/secwatch/sectest-insights/pkg/output"
	"github.com/secwatch/sectest-insights/pkg/recommender"
	"github.com/secwatch/sectest-insights/pkg/reporter"
	"github.com/secwatch/sectest-insights/pkg/server"
	"github.com/secwatch/sectest-insights/pkg/storage"
)

var (
	// Persistent flags
	configPath   string
	days         int
	suite        string
	outputFormat string
	verbose      bool

	// Report flags
	reportFormat string
	reportFile   string
	noNotify     bool

	// Cleanup flags
	olderThanDays int

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trend-scan",
		Short: "Security test trend analyzer",
		Long:  `Analyze stored security test telemetry for quality, security and performance trends.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initRuntime()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().IntVar(&days, "days", 30, "Analysis window in days")
	rootCmd.PersistentFlags().StringVarP(&suite, "suite", "s", "", "Test suite to analyze")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Success-rate trend analysis for a suite",
		Run:   runAnalyze,
	}

	securityCmd := &cobra.Command{
		Use:   "security",
		Short: "Security trends and risk assessment",
		Run:   runSecurity,
	}

	performanceCmd := &cobra.Command{
		Use:   "performance",
		Short: "Performance trends for a suite",
		Run:   runPerformance,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble the full report, write it to a file and notify",
		Run:   runReport,
	}
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Report format: html, csv, markdown, json (default from config)")
	reportCmd.Flags().StringVar(&reportFile, "file", "", "Report file name (default: timestamped in the report directory)")
	reportCmd.Flags().BoolVar(&noNotify, "no-notify", false, "Skip alert notifications")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API until interrupted",
		Run:   runServe,
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest <batch.json>",
		Short: "Load a telemetry batch file into storage",
		Args:  cobra.ExactArgs(1),
		Run:   runIngest,
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete telemetry past the retention window",
		Run:   runCleanup,
	}
	cleanupCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete records older than this many days (default: configured retention)")

	rootCmd.AddCommand(analyzeCmd, securityCmd, performanceCmd, reportCmd, serveCmd, ingestCmd, cleanupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initRuntime() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Verbose = true
	}
	logger = newLogger(cfg.Verbose)
}

func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return l
}

func openStore(ctx context.Context) storage.Store {
	if !cfg.Database.Enabled {
		fmt.Fprintln(os.Stderr, "Error: database is disabled in configuration")
		os.Exit(1)
	}

	store, err := storage.NewPostgresStore(ctx, storage.Config{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnLifetime: cfg.Database.ConnLifetime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return store
}

// newSource builds the Prometheus datasource, or returns nil when it is
// not configured or unusable. The collector falls back to storage.
func newSource() datasource.DataSource {
	if cfg.Prometheus.URL == "" {
		fmt.Println("[INFO] Prometheus URL not configured, using stored metrics")
		return nil
	}

	source, err := datasource.NewPrometheusSource(datasource.Config{
		URL:               cfg.Prometheus.URL,
		Timeout:           cfg.Prometheus.Timeout,
		ResponseTimeQuery: cfg.Prometheus.ResponseTimeQuery,
		ThroughputQuery:   cfg.Prometheus.ThroughputQuery,
		ErrorRateQuery:    cfg.Prometheus.ErrorRateQuery,
	}, logger)
	if err != nil {
		fmt.Printf("[WARN] Prometheus initialization failed: %v\n", err)
		fmt.Println("[INFO] Falling back to stored metrics")
		return nil
	}
	return source
}

func newAssembler(store storage.Store, source datasource.DataSource) *reporter.Assembler {
	col := collector.New(store, source, logger)
	eng := analyzer.New(cfg.Analyzer.Engine(), logger)
	return reporter.NewAssembler(col, eng, recommender.New(), logger)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	if suite == "" {
		fmt.Fprintln(os.Stderr, "Error: --suite is required")
		os.Exit(1)
	}

	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	fmt.Printf("[INFO] Analyzing suite %q over the last %d days\n", suite, days)

	result, err := newAssembler(store, nil).TrendAnalysis(ctx, suite, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		printJSON(result)
		return
	}
	printTrend(result)
}

func runSecurity(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	fmt.Printf("[INFO] Analyzing security findings over the last %d days\n", days)

	col := collector.New(store, nil, logger)
	records, err := col.SecurityBatch(ctx, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	eng := analyzer.New(cfg.Analyzer.Engine(), logger)
	analysis := eng.AnalyzeSecurityTrends(records)
	risk := recommender.New().AssessRisk(records)

	if outputFormat == "json" {
		printJSON(map[string]any{"analysis": analysis, "risk": risk})
		return
	}
	printSecurity(analysis, risk)
}

func runPerformance(cmd *cobra.Command, args []string) {
	if suite == "" {
		fmt.Fprintln(os.Stderr, "Error: --suite is required")
		os.Exit(1)
	}

	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	source := newSource()
	if source != nil {
		if source.IsAvailable(ctx) {
			fmt.Printf("[INFO] Using %s at %s\n", source.Name(), cfg.Prometheus.URL)
		} else {
			fmt.Println("[WARN] Prometheus not reachable, using stored metrics")
		}
	}

	result, err := newAssembler(store, source).PerformanceAnalysis(ctx, suite, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outputFormat == "json" {
		printJSON(result)
		return
	}
	printPerformance(result)
}

func runReport(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	fmt.Printf("[INFO] Assembling report over the last %d days\n", days)

	report, err := newAssembler(store, newSource()).Build(ctx, suite, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	format := reporter.Format(reportFormat)
	if reportFormat == "" {
		format = reporter.Format(cfg.Report.Format)
	}

	path, err := reportPath(report.Suite, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create report file: %v\n", err)
		os.Exit(1)
	}
	if err := reporter.Render(file, report, format); err != nil {
		file.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	file.Close()
	fmt.Printf("[INFO] Report written to %s\n", path)

	handler, err := output.ForFormat(outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := handler.Render(os.Stdout, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if noNotify || len(cfg.Notify.Channels) == 0 {
		return
	}
	notify(ctx, report)
}

func notify(ctx context.Context, report *reporter.Report) {
	dispatcher, err := notifier.FromConfig(cfg.Notify, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	minLevel := models.RiskLevel(strings.ToUpper(cfg.Notify.MinRiskLevel))
	if !notifier.ShouldAlert(report, minLevel) {
		fmt.Println("[INFO] No alert conditions met, skipping notifications")
		return
	}

	if err := dispatcher.Dispatch(ctx, notifier.BuildAlert(report)); err != nil {
		fmt.Printf("[WARN] Some notifications failed: %v\n", err)
		return
	}
	fmt.Printf("[INFO] Notifications sent to %s\n", strings.Join(dispatcher.Channels(), ", "))
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	store := openStore(ctx)
	defer store.Close()
	source := newSource()

	srv := server.New(cfg.Server, newAssembler(store, source), store, source, logger)
	fmt.Printf("[INFO] Dashboard API listening on %s\n", cfg.Server.Address)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read batch file: %v\n", err)
		os.Exit(1)
	}

	var batch models.IngestBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to parse batch file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	executions := 0
	for i := range batch.Executions {
		if err := store.SaveExecution(ctx, &batch.Executions[i]); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to save execution: %v\n", err)
			continue
		}
		executions++
	}

	vulnerabilities := 0
	if len(batch.Vulnerabilities) > 0 {
		if err := store.SaveVulnerabilities(ctx, batch.Vulnerabilities); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to save vulnerabilities: %v\n", err)
		} else {
			vulnerabilities = len(batch.Vulnerabilities)
		}
	}

	performance := 0
	for i := range batch.Performance {
		if err := store.SavePerformance(ctx, &batch.Performance[i]); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to save performance row: %v\n", err)
			continue
		}
		performance++
	}

	fmt.Printf("[INFO] Ingested %d execution(s), %d vulnerability(ies), %d performance row(s)\n",
		executions, vulnerabilities, performance)
}

func runCleanup(cmd *cobra.Command, args []string) {
	retention := olderThanDays
	if retention <= 0 {
		retention = cfg.Database.RetentionDays
	}

	ctx := context.Background()
	store := openStore(ctx)
	defer store.Close()

	cutoff := time.Now().AddDate(0, 0, -retention)
	deleted, err := store.Cleanup(ctx, cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("[INFO] Deleted %d record(s) older than %s\n", deleted, cutoff.Format("2006-01-02"))
}

// reportPath resolves the report file location, creating the report
// directory when needed.
func reportPath(suiteName string, format reporter.Format) (string, error) {
	dir := cfg.Report.OutputDir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	if reportFile != "" {
		if strings.Contains(reportFile, "/") {
			return reportFile, nil
		}
		return filepath.Join(dir, reportFile), nil
	}

	name := suiteName
	if name == "" {
		name = "all-suites"
	}
	timestamp := time.Now().Format("20060102-150405")
	return filepath.Join(dir, fmt.Sprintf("trend-report-%s-%s%s", name, timestamp, formatExt(format))), nil
}

func formatExt(format reporter.Format) string {
	switch format {
	case reporter.FormatCSV:
		return ".csv"
	case reporter.FormatMarkdown:
		return ".md"
	case reporter.FormatJSON:
		return ".json"
	default:
		return ".html"
	}
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func printTrend(result *analyzer.TrendAnalysisResult) {
	fmt.Printf("\nTrend Analysis\n")
	fmt.Printf("--------------\n")
	fmt.Printf("Direction: %s\n", result.Direction)
	fmt.Printf("Strength: %.2f\n", result.Strength)
	fmt.Printf("Volatility: %.3f\n", result.Volatility)
	fmt.Printf("Data points: %d\n\n", result.DataPoints)

	if len(result.Insights) > 0 {
		fmt.Printf("Insights:\n")
		for _, insight := range result.Insights {
			fmt.Printf("  [%s] %s\n", insight.Severity, insight.Message)
		}
		fmt.Println()
	}

	if len(result.Anomalies) > 0 {
		fmt.Printf("Anomalies:\n")
		for _, a := range result.Anomalies {
			fmt.Printf("  %s: %.2f (deviation %.2f)\n", a.Date, a.ObservedValue, a.DeviationScore)
		}
		fmt.Println()
	}

	if len(result.SeasonalPatterns) > 0 {
		fmt.Printf("Seasonal patterns:\n")
		for _, p := range result.SeasonalPatterns {
			fmt.Printf("  %s (confidence %.0f%%)\n", p.Description, p.Confidence*100)
		}
		fmt.Println()
	}
}

func printSecurity(analysis *analyzer.SecurityTrendAnalysis, risk models.RiskAssessment) {
	fmt.Printf("\nSecurity Analysis\n")
	fmt.Printf("-----------------\n")
	fmt.Printf("Overall trend: %s\n", analysis.OverallTrend)
	fmt.Printf("Risk velocity: %.2f points/day\n", analysis.RiskVelocity)
	fmt.Printf("Risk level: %s (score %.0f)\n\n", risk.Level, risk.Score)

	if len(risk.Drivers) > 0 {
		fmt.Printf("Drivers:\n")
		for _, driver := range risk.Drivers {
			fmt.Printf("  %s\n", driver)
		}
		fmt.Println()
	}

	if len(analysis.SeverityTrends) > 0 {
		fmt.Printf("Severity trends:\n")
		for _, severity := range models.SeverityOrder {
			if direction, ok := analysis.SeverityTrends[severity]; ok {
				fmt.Printf("  %s: %s\n", severity, direction)
			}
		}
		fmt.Println()
	}

	if len(analysis.Patterns) > 0 {
		fmt.Printf("Patterns:\n")
		for _, p := range analysis.Patterns {
			fmt.Printf("  %s: %d finding(s)\n", p.Type, p.Count)
		}
		fmt.Println()
	}
}

func printPerformance(result *analyzer.PerformanceTrendAnalysis) {
	fmt.Printf("\nPerformance Analysis\n")
	fmt.Printf("--------------------\n")
	fmt.Printf("Response time: %s\n", result.ResponseTimeTrend)
	fmt.Printf("Throughput: %s\n", result.ThroughputTrend)
	fmt.Printf("Error rate: %s\n", result.ErrorRateTrend)
	fmt.Printf("Stability score: %.1f\n\n", result.StabilityScore)

	if len(result.DegradationPatterns) > 0 {
		fmt.Printf("Degradations:\n")
		for _, p := range result.DegradationPatterns {
			fmt.Printf("  %s\n", p.Detail)
		}
		fmt.Println()
	}
}
