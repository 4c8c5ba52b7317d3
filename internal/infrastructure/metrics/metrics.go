package metrics

import (
	"expvar"
)

// Tool-call metrics (counters) using expvar maps keyed by operation name.
var (
	toolCallsTotal  = expvar.NewMap("canvasgraph_tool_calls_total")
	toolCallsFailed = expvar.NewMap("canvasgraph_tool_calls_failed_total")
)

// Compiler / Reconciler metrics.
var (
	compilesTotal          = new(expvar.Int)
	transformFailuresTotal = new(expvar.Int)
	reconcilesTotal        = new(expvar.Int)
	reconcileKeptFields    = new(expvar.Int)
)

func init() {
	expvar.Publish("canvasgraph_compiles_total", compilesTotal)
	expvar.Publish("canvasgraph_transform_failures_total", transformFailuresTotal)
	expvar.Publish("canvasgraph_reconciles_total", reconcilesTotal)
	expvar.Publish("canvasgraph_reconcile_kept_fields_total", reconcileKeptFields)
}

// Tool-call helpers
func ToolCall(op string)       { toolCallsTotal.Add(op, 1) }
func ToolCallFailed(op string) { toolCallsFailed.Add(op, 1) }

// Compiler/Reconciler helpers
func IncCompiles()          { compilesTotal.Add(1) }
func IncTransformFailures() { transformFailuresTotal.Add(1) }
func IncReconciles()        { reconcilesTotal.Add(1) }
func AddReconcileKept(n int) {
	reconcileKeptFields.Add(int64(n))
}
