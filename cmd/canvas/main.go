// Package main provides the CanvasGraph CLI application
package main

import (
	"fmt"
	"os"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("CanvasGraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	fmt.Println("🎨 CanvasGraph - Canvas-based Project Graph Engine")
	fmt.Println("Run 'canvasd' to start the HTTP server")
	fmt.Println("Run 'make help' to see available commands")
}
