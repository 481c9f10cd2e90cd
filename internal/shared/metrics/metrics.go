package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	uploadsTotal           atomic.Uint64
	uploadsFailedTotal     atomic.Uint64
	optimizeStartedTotal   atomic.Uint64
	optimizeCompletedTotal atomic.Uint64
	optimizeFailedTotal    atomic.Uint64
	keywordAnalysesTotal   atomic.Uint64
	downloadsTotal         atomic.Uint64
	sessionsCleanedTotal   atomic.Uint64

	optimizeDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncUpload increments the upload counter.
func IncUpload() { uploadsTotal.Add(1) }

// IncUploadFailed increments the failed upload counter.
func IncUploadFailed() { uploadsFailedTotal.Add(1) }

// IncOptimizeStarted increments the started counter.
func IncOptimizeStarted() { optimizeStartedTotal.Add(1) }

// IncOptimizeCompleted increments the completed counter.
func IncOptimizeCompleted() { optimizeCompletedTotal.Add(1) }

// IncOptimizeFailed increments the failed counter.
func IncOptimizeFailed() { optimizeFailedTotal.Add(1) }

// IncKeywordAnalysis increments the keyword analysis counter.
func IncKeywordAnalysis() { keywordAnalysesTotal.Add(1) }

// IncDownload increments the download counter.
func IncDownload() { downloadsTotal.Add(1) }

// IncSessionCleaned increments the cleaned session counter.
func IncSessionCleaned() { sessionsCleanedTotal.Add(1) }

// ObserveOptimizeDurationMs records an optimization duration in milliseconds.
func ObserveOptimizeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	optimizeDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_uploads_total", "Total resume uploads", uploadsTotal.Load())
	writeCounter(&buf, "resume_uploads_failed_total", "Total failed resume uploads", uploadsFailedTotal.Load())
	writeCounter(&buf, "optimize_started_total", "Total optimizations started", optimizeStartedTotal.Load())
	writeCounter(&buf, "optimize_completed_total", "Total optimizations completed", optimizeCompletedTotal.Load())
	writeCounter(&buf, "optimize_failed_total", "Total optimizations failed", optimizeFailedTotal.Load())
	writeCounter(&buf, "keyword_analyses_total", "Total keyword analyses", keywordAnalysesTotal.Load())
	writeCounter(&buf, "resume_downloads_total", "Total optimized resume downloads", downloadsTotal.Load())
	writeCounter(&buf, "sessions_cleaned_total", "Total sessions cleaned up", sessionsCleanedTotal.Load())
	writeHistogram(&buf, "optimize_duration_ms", "Optimization duration in milliseconds", optimizeDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
