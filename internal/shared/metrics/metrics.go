// Package metrics keeps process-local counters and renders them in the
// Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	adviceRuns = newCounterVec("coach_advice_runs_total",
		"Purchase order pipeline runs by outcome", "outcome")
	adviceCorrections = newCounterVec("coach_advice_corrections_total",
		"Corrective re-invocations issued for the starting budget", "")
	llmInvocations = newCounterVec("coach_llm_invocations_total",
		"Outbound forced tool invocations by tool", "tool")
	tickExtracts = newCounterVec("coach_tick_extracts_total",
		"Screenshot extraction requests", "")

	adviceDuration = newHistogram("coach_advice_duration_ms",
		"Pipeline duration in milliseconds",
		[]float64{250, 500, 1000, 2000, 5000, 10000, 20000, 30000, 60000})
)

// ObserveAdvice records one finished pipeline run.
func ObserveAdvice(outcome string, durationMs float64) {
	adviceRuns.inc(outcome)
	adviceDuration.observe(max(durationMs, 0))
}

// IncAdviceCorrections counts corrective re-invocations.
func IncAdviceCorrections() { adviceCorrections.inc("") }

// IncLLMInvocations counts an outbound invocation of tool.
func IncLLMInvocations(tool string) { llmInvocations.inc(tool) }

// IncTickExtracts counts screenshot extraction requests.
func IncTickExtracts() { tickExtracts.inc("") }

// Handler serves Render on GET /metrics.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render writes every family, counters first.
func Render() string {
	var sb strings.Builder
	for _, cv := range []*counterVec{adviceRuns, adviceCorrections, llmInvocations, tickExtracts} {
		cv.write(&sb)
	}
	adviceDuration.write(&sb)
	return sb.String()
}

// counterVec is a counter family with at most one label. An empty label name
// makes it a plain counter.
type counterVec struct {
	name, help, label string

	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(name, help, label string) *counterVec {
	return &counterVec{name: name, help: help, label: label, values: make(map[string]uint64)}
}

func (cv *counterVec) inc(value string) {
	if cv.label == "" {
		value = ""
	} else if value == "" {
		value = "unknown"
	}
	cv.mu.Lock()
	cv.values[value]++
	cv.mu.Unlock()
}

func (cv *counterVec) get(value string) uint64 {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.values[value]
}

func (cv *counterVec) write(w io.Writer) {
	cv.mu.Lock()
	keys := make([]string, 0, len(cv.values))
	for k := range cv.values {
		keys = append(keys, k)
	}
	snapshot := make(map[string]uint64, len(cv.values))
	for k, v := range cv.values {
		snapshot[k] = v
	}
	cv.mu.Unlock()
	sort.Strings(keys)

	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", cv.name, cv.help, cv.name)
	if cv.label == "" {
		fmt.Fprintf(w, "%s %d\n", cv.name, snapshot[""])
		return
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s=%q} %d\n", cv.name, cv.label, k, snapshot[k])
	}
}

type histogram struct {
	name, help string
	bounds     []float64

	mu    sync.Mutex
	hits  []uint64 // per bucket, not cumulative
	sum   float64
	count uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, hits: make([]uint64, len(bounds))}
}

func (h *histogram) observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < len(h.hits) {
		h.hits[i]++
	}
	h.sum += v
	h.count++
}

// cumulative returns the running bucket totals exposed as le buckets.
func (h *histogram) cumulative() ([]uint64, float64, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint64, len(h.hits))
	var running uint64
	for i, n := range h.hits {
		running += n
		out[i] = running
	}
	return out, h.sum, h.count
}

func (h *histogram) write(w io.Writer) {
	buckets, sum, count := h.cumulative()
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	for i, bound := range h.bounds {
		fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", h.name, num(bound), buckets[i])
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.name, count)
	fmt.Fprintf(w, "%s_sum %s\n%s_count %d\n", h.name, num(sum), h.name, count)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
