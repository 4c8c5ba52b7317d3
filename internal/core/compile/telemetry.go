package compile

import (
	"encoding/json"
	"fmt"
	"time"
)

// Channel identifies a telemetry stream emitted from inside a compiled
// document.
type Channel string

const (
	ChannelLog   Channel = "log"
	ChannelWarn  Channel = "warn"
	ChannelError Channel = "error"
	ChannelInfo  Channel = "info"
)

// TelemetryMessage is the structured message the injected shim forwards to
// the hosting context for every console call, uncaught error, or unhandled
// rejection inside the document.
type TelemetryMessage struct {
	NodeID    string    `json:"nodeId"`
	Channel   Channel   `json:"channel"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// telemetryShim intercepts the console channels plus error events inside the
// compiled document's own execution context and posts each as a structured
// message to the host. stringify never throws: objects render as JSON,
// null/undefined as literal words, circular or otherwise unserializable
// values fall back to a placeholder.
const telemetryShim = `<script>
(function () {
  var NODE_ID = %s;
  function stringify(value) {
    if (value === null) return "null";
    if (value === undefined) return "undefined";
    if (typeof value === "string") return value;
    if (typeof value === "number" || typeof value === "boolean") return String(value);
    if (value instanceof Error) return value.stack || String(value);
    try {
      return JSON.stringify(value, null, 2);
    } catch (_) {
      try {
        return String(value);
      } catch (_) {
        return "[unserializable value]";
      }
    }
  }
  function post(channel, args) {
    var text = Array.prototype.map.call(args, stringify).join(" ");
    try {
      window.parent.postMessage({
        nodeId: NODE_ID,
        channel: channel,
        text: text,
        timestamp: new Date().toISOString()
      }, "*");
    } catch (_) { /* host gone; drop */ }
  }
  ["log", "warn", "error", "info"].forEach(function (channel) {
    var original = console[channel];
    console[channel] = function () {
      post(channel, arguments);
      original.apply(console, arguments);
    };
  });
  window.addEventListener("error", function (event) {
    post("error", [event.message || String(event.error)]);
  });
  window.addEventListener("unhandledrejection", function (event) {
    post("error", ["Unhandled rejection: " + stringify(event.reason)]);
  });
})();
</script>`

// renderTelemetryShim binds the shim to the preview node whose document it
// instruments.
func renderTelemetryShim(previewNodeID string) string {
	id, _ := json.Marshal(previewNodeID)
	return fmt.Sprintf(telemetryShim, string(id))
}
