package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "marketpulse",
		Short: "Market intelligence collection pipeline",
	}
	root.AddCommand(runCMD(), collectCMD(), corpusCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
