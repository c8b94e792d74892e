package main

import (
	"fmt"
	"os"

	"github.com/secwatch/sectest-insights/pkg/config"
)

func main() {
	fmt.Println("=== Configuration Testing ===")
	fmt.Println()

	// Test 1: Default configuration
	fmt.Println("[TEST 1] Default Configuration")
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("  Default config failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Database: enabled=%v, retention %d days\n", cfg.Database.Enabled, cfg.Database.RetentionDays)
	fmt.Printf("  Prometheus: %s (timeout %v)\n", cfg.Prometheus.URL, cfg.Prometheus.Timeout)
	fmt.Printf("  Analyzer: slope %.3f, anomaly z %.1f, volatility %.2f\n",
		cfg.Analyzer.SlopeThreshold, cfg.Analyzer.AnomalyThreshold, cfg.Analyzer.VolatilityThreshold)
	fmt.Printf("  Server: %s\n", cfg.Server.Address)
	fmt.Printf("  Report: %s format into %s/\n", cfg.Report.Format, cfg.Report.OutputDir)
	fmt.Println()

	// Test 2: Environment variable override
	fmt.Println("[TEST 2] Environment Variable Override")
	os.Setenv("SECTEST_DATABASE_RETENTION_DAYS", "180")
	os.Setenv("SECTEST_REPORT_FORMAT", "markdown")
	cfg2, err := config.Load("")
	if err != nil {
		fmt.Printf("  Override config failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Retention Days: %d (changed from 90 to 180)\n", cfg2.Database.RetentionDays)
	fmt.Printf("  Report Format: %s (changed from html to markdown)\n", cfg2.Report.Format)
	os.Unsetenv("SECTEST_DATABASE_RETENTION_DAYS")
	os.Unsetenv("SECTEST_REPORT_FORMAT")
	fmt.Println()

	// Test 3: Validation
	fmt.Println("[TEST 3] Configuration Validation")

	validCfg, _ := config.Load("")
	if err := validCfg.Validate(); err != nil {
		fmt.Printf("  Valid config failed: %v\n", err)
	} else {
		fmt.Println("  Valid config passed")
	}

	invalidCfg, _ := config.Load("")
	invalidCfg.Analyzer.AnomalyThreshold = -1
	if err := invalidCfg.Validate(); err != nil {
		fmt.Printf("  Invalid config caught: %v\n", err)
	}
	fmt.Println()

	// Test 4: Config file
	if len(os.Args) > 1 {
		fmt.Printf("[TEST 4] Config File: %s\n", os.Args[1])
		fileCfg, err := config.Load(os.Args[1])
		if err != nil {
			fmt.Printf("  Failed to load: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  Database URL: %s\n", fileCfg.Database.URL)
		fmt.Printf("  Notify channels: %v\n", fileCfg.Notify.Channels)
		fmt.Println()
	}

	// Summary
	fmt.Println("=== Configuration Options ===")
	fmt.Println("\n1. Environment Variables:")
	fmt.Println("   export SECTEST_DATABASE_URL=\"host=db port=5432 ...\"")
	fmt.Println("   export SECTEST_DATABASE_RETENTION_DAYS=180")
	fmt.Println("\n2. Config File:")
	fmt.Println("   trend-scan --config config.yaml analyze -s api-tests")
	fmt.Println("\n3. Precedence: file > environment > defaults")
}
