package main

import (
	"fmt"
	"os"

	"github.com/mofutimer/autorace-schedule/internal/cli"
)

func main() {
	if err := cli.NewScrapeCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitError)
	}
}
