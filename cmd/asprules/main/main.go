package main

import (
	"os"

	"github.com/arthur-debert/asprules/cmd/asprules"
	"github.com/arthur-debert/asprules/pkg/output"
)

func main() {
	rootCmd := asprules.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !asprules.IsReported(err) {
			r := output.NewRenderer(os.Stderr, output.Resolve(output.FormatAuto, os.Stderr))
			_ = r.Error(err)
		}
		os.Exit(1)
	}
}
