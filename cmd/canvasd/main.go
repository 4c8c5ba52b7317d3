// Package main provides the CanvasGraph HTTP server exposing the canvas
// runtime plus debug endpoints.
package main

import (
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"
	"sort"
	"strings"

	"github.com/canvasgraph/canvasgraph/pkg/canvas"
)

func main() {
	rt := canvas.NewRuntime()
	srv := &server{runtime: rt}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "CanvasGraph server is running. See /healthz, /metrics, /debug/vars, /debug/pprof/")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "ok")
	})

	// Prometheus-compatible metrics endpoint (no external deps)
	mux.HandleFunc("/metrics", promMetricsHandler)

	// Canvas runtime endpoints
	mux.HandleFunc("POST /v1/canvases", srv.createCanvas)
	mux.HandleFunc("GET /v1/canvases/{id}/preview/{preview}", srv.compilePreview)
	mux.HandleFunc("POST /v1/canvases/{id}/mutate", srv.mutate)
	mux.HandleFunc("POST /v1/canvases/{id}/sync", srv.sync)
	mux.HandleFunc("POST /v1/canvases/{id}/snapshot", srv.persist)
	mux.HandleFunc("POST /v1/canvases/{id}/restore", srv.restore)

	addr := ":8080"
	if v := os.Getenv("CANVASGRAPH_ADDR"); v != "" {
		addr = v
	}
	log.Printf("Starting CanvasGraph server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// promMetricsHandler renders known expvar metrics in Prometheus text format.
// nolint:funlen,gocognit,gocyclo // Straightforward formatter; long but simple
func promMetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Define metadata for known metrics
	type meta struct {
		typ, help string
		isMap     bool
		label     string
	}
	metas := map[string]meta{
		"canvasgraph_tool_calls_total":            {typ: "counter", help: "Tool-call operations executed", isMap: true, label: "op"},
		"canvasgraph_tool_calls_failed_total":     {typ: "counter", help: "Tool-call operations skipped with an error", isMap: true, label: "op"},
		"canvasgraph_compiles_total":              {typ: "counter", help: "Preview documents compiled", isMap: false},
		"canvasgraph_transform_failures_total":    {typ: "counter", help: "Module transforms replaced by an error stub", isMap: false},
		"canvasgraph_reconciles_total":            {typ: "counter", help: "Remote snapshots merged", isMap: false},
		"canvasgraph_reconcile_kept_fields_total": {typ: "counter", help: "Fields kept local during snapshot merges", isMap: false},
	}

	// Collect variable names deterministically
	varNames := make([]string, 0, 64)
	expvar.Do(func(kv expvar.KeyValue) {
		varNames = append(varNames, kv.Key)
	})
	sort.Strings(varNames)

	printed := make(map[string]bool)

	writeHeader := func(name string, m meta) {
		if printed[name] {
			return
		}
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, sanitizeHelp(m.help))
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, m.typ)
		printed[name] = true
	}

	for _, name := range varNames {
		v := expvar.Get(name)
		m, known := metas[name]
		if !known {
			// Minimal rendering: publish as an untyped gauge if numeric
			if iv, ok := v.(*expvar.Int); ok {
				_, _ = fmt.Fprintf(w, "# TYPE %s gauge\n", name)
				_, _ = fmt.Fprintf(w, "%s %s\n", name, iv.String())
			}
			continue
		}
		writeHeader(name, m)
		if m.isMap {
			if mp, ok := v.(*expvar.Map); ok {
				// Collect subkeys deterministically
				sub := make([]expvar.KeyValue, 0, 8)
				mp.Do(func(kv expvar.KeyValue) { sub = append(sub, kv) })
				sort.Slice(sub, func(i, j int) bool { return sub[i].Key < sub[j].Key })
				for _, kv := range sub {
					// Expect numeric string; emit sample with label
					fmt.Fprintf(w, "%s{%s=\"%s\"} %s\n", name, m.label, escapeLabel(kv.Key), kv.Value.String())
				}
			}
		} else {
			// Scalar metrics
			fmt.Fprintf(w, "%s %s\n", name, v.String())
		}
	}
}

func sanitizeHelp(s string) string {
	// Replace newlines with spaces to satisfy Prometheus text format
	return strings.ReplaceAll(s, "\n", " ")
}

func escapeLabel(s string) string {
	// Escape backslash, double-quote, and newline per Prometheus format
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
