package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/secwatch/sectest-insights/pkg/models"
	"github.com/secwatch/sectest-insights/pkg/storage"
)

func main() {
	// Database connection string
	dsn := "host=localhost port=5432 user=sectest password=devpassword dbname=sectest_insights sslmode=disable"
	if envDSN := os.Getenv("DATABASE_URL"); envDSN != "" {
		dsn = envDSN
	}

	fmt.Println("[INFO] Connecting to PostgreSQL...")
	ctx := context.Background()
	store, err := storage.NewPostgresStore(ctx, storage.Config{URL: dsn})
	if err != nil {
		fmt.Printf("[ERROR] Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		fmt.Printf("[ERROR] Ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[SUCCESS] Connected to PostgreSQL")

	// Test 1: Save an execution
	fmt.Println("\n[TEST 1] Saving execution...")
	exec := &models.ExecutionRecord{
		Suite:       "smoke-test",
		TestName:    "test_login_flow",
		Status:      models.StatusPassed,
		Environment: "staging",
		StartedAt:   time.Now(),
		DurationMS:  1850,
	}
	if err := store.SaveExecution(ctx, exec); err != nil {
		fmt.Printf("[ERROR] Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Saved execution: %s\n", exec.ID)

	// Test 2: Save findings
	fmt.Println("\n[TEST 2] Saving vulnerability findings...")
	vulns := []models.VulnerabilityRecord{
		{
			ExecutionID: exec.ID,
			ScanDate:    time.Now(),
			Type:        "SQL_INJECTION",
			Severity:    models.SeverityHigh,
			Count:       2,
			Description: "Unsanitized input in order lookup",
			Endpoint:    "/api/orders",
		},
		{
			ExecutionID: exec.ID,
			ScanDate:    time.Now(),
			Type:        "XSS",
			Severity:    models.SeverityMedium,
			Count:       1,
			Endpoint:    "/api/profile",
		},
	}
	if err := store.SaveVulnerabilities(ctx, vulns); err != nil {
		fmt.Printf("[ERROR] Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Saved %d finding(s)\n", len(vulns))

	// Test 3: Save performance metrics
	fmt.Println("\n[TEST 3] Saving performance metrics...")
	perf := &models.PerformanceRecord{
		Suite:           "smoke-test",
		MetricDate:      time.Now(),
		AvgResponseTime: 420.5,
		Throughput:      98.2,
		ErrorRate:       0.012,
		SampleCount:     640,
	}
	if err := store.SavePerformance(ctx, perf); err != nil {
		fmt.Printf("[ERROR] Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[SUCCESS] Performance metrics saved")

	// Test 4: Read trend data back
	fmt.Println("\n[TEST 4] Reading trend data...")
	records, err := store.TrendRecords(ctx, "smoke-test", 30)
	if err != nil {
		fmt.Printf("[ERROR] Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Found %d daily record(s) for smoke-test\n", len(records))
	for i, rec := range records {
		fmt.Printf("  %d. %s: %.1f%% success\n",
			i+1, rec.String(models.FieldExecutionDate), rec.Float(models.FieldSuccessRate))
	}

	// Test 5: Read findings back
	fmt.Println("\n[TEST 5] Reading vulnerability records...")
	vulnRecords, err := store.VulnerabilityRecords(ctx, 30)
	if err != nil {
		fmt.Printf("[ERROR] Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Found %d finding record(s)\n", len(vulnRecords))

	// Test 6: Suite summary
	fmt.Println("\n[TEST 6] Reading execution summary...")
	summaries, err := store.ExecutionSummary(ctx, 30)
	if err != nil {
		fmt.Printf("[ERROR] Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Found %d suite(s)\n", len(summaries))
	for i, s := range summaries {
		fmt.Printf("  %d. %s: %d execution(s), %.1f%% success\n",
			i+1, s.Suite, s.Executions, s.AvgSuccessRate)
	}

	// Test 7: Retention cleanup
	fmt.Println("\n[TEST 7] Running retention cleanup...")
	deleted, err := store.Cleanup(ctx, time.Now().AddDate(-1, 0, 0))
	if err != nil {
		fmt.Printf("[ERROR] Cleanup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Cleanup removed %d record(s) older than a year\n", deleted)

	// Summary
	fmt.Println("\n" + "============================================================")
	fmt.Println("All tests passed!")
	fmt.Println("============================================================")
	fmt.Println("\nPostgreSQL Store is working correctly!")
	fmt.Println("  - Executions: Save, Trend aggregation [OK]")
	fmt.Println("  - Findings: Save, Query [OK]")
	fmt.Println("  - Performance: Upsert [OK]")
	fmt.Println("  - Summary and Cleanup [OK]")
}
