// Package canvas provides a minimal public façade for working with canvases
// without importing internal packages. It re-exports the core canvas types
// for convenience and exposes a Runtime with simple methods to store, compile,
// mutate and synchronize canvases.
package canvas
