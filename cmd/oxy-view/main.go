package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oxy-view",
	Short: "An interactive 3D viewer with an orbit camera for vehicle and map data",
	Long: `oxy-view opens a window with a ground grid viewed through an orbit camera.
Drag with the left button to pan, with the right button to orbit, and scroll to
zoom toward the cursor. The camera can follow a published vehicle pose, jump to
it, and measure ground distances between two picked points.`,
	Version: "0.1.0",
	RunE:    runViewer,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
