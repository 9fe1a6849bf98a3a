// Package metrics emits lookup and error telemetry through the process-wide
// telemetry system. Every recorder is a no-op until metrics are initialized.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/cargofree/cargo-free/internal/core"
	"github.com/cargofree/cargo-free/internal/observability"
)

// Lookup metric names
const (
	LookupsTotalName    = "crate_lookups_total"
	LookupDurationName  = "crate_lookup_duration_ms"
	LookupFailuresName  = "crate_lookup_failures_total"
	BatchSizeName       = "crate_batch_size"
	BatchDurationName   = "crate_batch_duration_ms"
	ServerStartTimeName = "app_server_start_time_seconds"
)

// RecordLookup records one finished lookup. Failed lookups are counted
// under LookupFailuresName with their failure kind.
func RecordLookup(result core.LookupResult) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}

	if !result.OK() {
		_ = sys.Counter(LookupFailuresName, 1, map[string]string{
			"reason": FailureReason(result.Err),
		})
		return
	}

	labels := map[string]string{
		"availability": result.Availability.String(),
		"status":       strconv.Itoa(result.StatusCode),
	}
	_ = sys.Counter(LookupsTotalName, 1, labels)
	_ = sys.Histogram(LookupDurationName, result.Elapsed, map[string]string{
		"availability": result.Availability.String(),
	})
}

// RecordBatch records the size and wall time of one batch run.
func RecordBatch(size int, elapsed time.Duration) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}
	_ = sys.Gauge(BatchSizeName, float64(size), nil)
	_ = sys.Histogram(BatchDurationName, elapsed, nil)
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(ServerStartTimeName, float64(timestamp), nil)
	}
}

// FailureReason maps a lookup error to a low-cardinality label.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, core.ErrEmptyName):
		return "empty_name"
	case errors.Is(err, core.ErrTimeout):
		return "timeout"
	default:
		return "other"
	}
}
