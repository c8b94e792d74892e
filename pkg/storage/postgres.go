package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/secwatch/sectest-insights/pkg/models"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const dayFormat = "2006-01-02"

// PostgresStore implements Store over PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool, verifies connectivity and runs
// the embedded migrations.
func NewPostgresStore(ctx context.Context, cfg Config) (*PostgresStore, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate executes the embedded schema files in name order.
func (s *PostgresStore) migrate(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		schema, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(schema)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveExecution inserts one test execution row.
func (s *PostgresStore) SaveExecution(ctx context.Context, exec *models.ExecutionRecord) error {
	if exec.ID == "" {
		exec.ID = uuid.New().String()
	}
	if exec.StartedAt.IsZero() {
		exec.StartedAt = time.Now()
	}

	query := `
		INSERT INTO test_executions (
			id, suite, test_name, status, environment, started_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		exec.ID, exec.Suite, exec.TestName, exec.Status,
		exec.Environment, exec.StartedAt, exec.DurationMS,
	)

	return err
}

// SaveVulnerabilities inserts a batch of findings in one transaction.
func (s *PostgresStore) SaveVulnerabilities(ctx context.Context, vulns []models.VulnerabilityRecord) error {
	if len(vulns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO security_test_results (
			id, execution_id, scan_date, vulnerability_type,
			severity_level, vulnerability_count, description, endpoint
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i := range vulns {
		v := &vulns[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		if v.ScanDate.IsZero() {
			v.ScanDate = time.Now()
		}
		count := v.Count
		if count <= 0 {
			count = 1
		}

		var executionID any
		if v.ExecutionID != "" {
			executionID = v.ExecutionID
		}

		_, err := tx.ExecContext(ctx, query,
			v.ID, executionID, v.ScanDate, v.Type,
			models.NormalizeSeverity(v.Severity), count, v.Description, v.Endpoint,
		)
		if err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", v.Type, err)
		}
	}

	return tx.Commit()
}

// SavePerformance upserts one day of performance metrics for a suite.
func (s *PostgresStore) SavePerformance(ctx context.Context, perf *models.PerformanceRecord) error {
	if perf.ID == "" {
		perf.ID = uuid.New().String()
	}
	if perf.MetricDate.IsZero() {
		perf.MetricDate = time.Now()
	}

	query := `
		INSERT INTO performance_metrics (
			id, suite, metric_date, avg_response_time_ms,
			throughput, error_rate, sample_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (suite, metric_date) DO UPDATE SET
			avg_response_time_ms = EXCLUDED.avg_response_time_ms,
			throughput = EXCLUDED.throughput,
			error_rate = EXCLUDED.error_rate,
			sample_count = EXCLUDED.sample_count
	`

	_, err := s.db.ExecContext(ctx, query,
		perf.ID, perf.Suite, perf.MetricDate, perf.AvgResponseTime,
		perf.Throughput, perf.ErrorRate, perf.SampleCount,
	)

	return err
}

// TrendRecords returns daily execution rollups for a suite over the last
// N days, oldest first.
func (s *PostgresStore) TrendRecords(ctx context.Context, suite string, days int) ([]models.Record, error) {
	query := `
		SELECT execution_date, total_tests, passed_tests, success_rate, avg_duration_ms
		FROM test_trend_data
		WHERE suite = $1 AND execution_date >= CURRENT_DATE - $2::int
		ORDER BY execution_date
	`

	rows, err := s.db.QueryContext(ctx, query, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend data: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var (
			day         time.Time
			total       int64
			passed      int64
			successRate float64
			avgDuration float64
		)
		if err := rows.Scan(&day, &total, &passed, &successRate, &avgDuration); err != nil {
			return nil, err
		}

		records = append(records, models.Record{
			models.FieldExecutionDate: day.Format(dayFormat),
			models.FieldSuite:         suite,
			models.FieldTotalTests:    int(total),
			models.FieldPassedTests:   int(passed),
			models.FieldSuccessRate:   successRate,
			models.FieldAvgDuration:   avgDuration,
		})
	}

	return records, rows.Err()
}

// VulnerabilityRecords returns individual findings from the last N days,
// oldest first.
func (s *PostgresStore) VulnerabilityRecords(ctx context.Context, days int) ([]models.Record, error) {
	query := `
		SELECT scan_date, vulnerability_type, severity_level, vulnerability_count, description
		FROM security_test_results
		WHERE scan_date >= CURRENT_DATE - $1::int
		ORDER BY scan_date, severity_level, vulnerability_type
	`

	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query security results: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var (
			day         time.Time
			vulnType    string
			severity    string
			count       int64
			description sql.NullString
		)
		if err := rows.Scan(&day, &vulnType, &severity, &count, &description); err != nil {
			return nil, err
		}

		rec := models.Record{
			models.FieldScanDate:           day.Format(dayFormat),
			models.FieldVulnerabilityType:  vulnType,
			models.FieldSeverityLevel:      severity,
			models.FieldVulnerabilityCount: int(count),
		}
		if description.Valid {
			rec["description"] = description.String
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// PerformanceRecords returns daily performance metrics for a suite over
// the last N days, oldest first.
func (s *PostgresStore) PerformanceRecords(ctx context.Context, suite string, days int) ([]models.Record, error) {
	query := `
		SELECT metric_date, avg_response_time_ms, throughput, error_rate
		FROM performance_metrics
		WHERE suite = $1 AND metric_date >= CURRENT_DATE - $2::int
		ORDER BY metric_date
	`

	rows, err := s.db.QueryContext(ctx, query, suite, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance metrics: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var (
			day          time.Time
			responseTime float64
			throughput   float64
			errorRate    float64
		)
		if err := rows.Scan(&day, &responseTime, &throughput, &errorRate); err != nil {
			return nil, err
		}

		records = append(records, models.Record{
			models.FieldExecutionDate:   day.Format(dayFormat),
			models.FieldSuite:           suite,
			models.FieldAvgResponseTime: responseTime,
			models.FieldThroughput:      throughput,
			models.FieldErrorRate:       errorRate,
		})
	}

	return records, rows.Err()
}

// ExecutionSummary returns the per-suite rollup over the last N days.
func (s *PostgresStore) ExecutionSummary(ctx context.Context, days int) ([]models.SuiteSummary, error) {
	query := `
		SELECT suite,
			COUNT(*) AS executions,
			COUNT(*) FILTER (WHERE status = 'PASSED') AS passed,
			COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
			AVG(CASE WHEN status = 'PASSED' THEN 100.0 ELSE 0.0 END) AS avg_success_rate,
			AVG(duration_ms) AS avg_duration_ms,
			MAX(started_at) AS last_execution
		FROM test_executions
		WHERE started_at >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY suite
		ORDER BY suite
	`

	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution summary: %w", err)
	}
	defer rows.Close()

	summaries := []models.SuiteSummary{}
	for rows.Next() {
		var (
			sum         models.SuiteSummary
			executions  int64
			passed      int64
			failed      int64
			avgRate     sql.NullFloat64
			avgDuration sql.NullFloat64
		)
		err := rows.Scan(&sum.Suite, &executions, &passed, &failed,
			&avgRate, &avgDuration, &sum.LastExecution)
		if err != nil {
			return nil, err
		}

		sum.Executions = int(executions)
		sum.Passed = int(passed)
		sum.Failed = int(failed)
		sum.AvgSuccessRate = avgRate.Float64
		sum.AvgDurationMS = avgDuration.Float64
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// Cleanup deletes telemetry older than the cutoff and returns the number
// of rows removed. Findings and metrics go first so execution rows never
// strand children.
func (s *PostgresStore) Cleanup(ctx context.Context, olderThan time.Time) (int64, error) {
	var total int64

	statements := []struct {
		name  string
		query string
	}{
		{"security_test_results", `DELETE FROM security_test_results WHERE scan_date < $1`},
		{"performance_metrics", `DELETE FROM performance_metrics WHERE metric_date < $1`},
		{"test_executions", `DELETE FROM test_executions WHERE started_at < $1`},
	}

	for _, stmt := range statements {
		result, err := s.db.ExecContext(ctx, stmt.query, olderThan)
		if err != nil {
			return total, fmt.Errorf("failed to clean %s: %w", stmt.name, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += rows
	}

	return total, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
