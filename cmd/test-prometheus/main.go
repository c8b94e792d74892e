package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/secwatch/sectest-insights/pkg/datasource"
	"github.com/secwatch/sectest-insights/pkg/models"
)

func main() {
	prometheusURL := "http://localhost:9090"
	if url := os.Getenv("PROMETHEUS_URL"); url != "" {
		prometheusURL = url
	}

	fmt.Println("[INFO] Connecting to Prometheus:", prometheusURL)

	source, err := datasource.NewPrometheusSource(datasource.Config{URL: prometheusURL}, nil)
	if err != nil {
		fmt.Printf("[ERROR] Failed to create Prometheus source: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if !source.IsAvailable(ctx) {
		fmt.Println("[ERROR] Prometheus is not available")
		os.Exit(1)
	}
	fmt.Println("[INFO] Prometheus is available")

	testSuites := []string{
		"api-tests",
		"auth-tests",
		"checkout-tests",
	}
	if len(os.Args) > 1 {
		testSuites = os.Args[1:]
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("Testing PrometheusSource performance queries")
	fmt.Println(strings.Repeat("=", 80) + "\n")

	for _, suite := range testSuites {
		fmt.Printf("Suite: %s\n", suite)
		fmt.Println(strings.Repeat("-", 40))

		records, err := source.PerformanceRecords(ctx, suite, 7)
		if err != nil {
			fmt.Printf("  ERROR: %v\n\n", err)
			continue
		}
		if len(records) == 0 {
			fmt.Println("  No samples in the last 7 days")
			fmt.Println()
			continue
		}

		for _, rec := range records {
			fmt.Printf("  %s:\n", rec.String(models.FieldExecutionDate))
			fmt.Printf("    Response time: %.1f ms\n", rec.Float(models.FieldAvgResponseTime))
			fmt.Printf("    Throughput:    %.1f req/s\n", rec.Float(models.FieldThroughput))
			fmt.Printf("    Error rate:    %.2f%%\n", rec.Float(models.FieldErrorRate)*100)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("[INFO] Test complete!")
}
