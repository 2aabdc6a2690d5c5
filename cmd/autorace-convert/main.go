package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mofutimer/autorace-schedule/internal/cli"
	"github.com/mofutimer/autorace-schedule/internal/storage"
)

func main() {
	if err := cli.NewConvertCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, storage.ErrTableNotFound) {
			os.Exit(cli.ExitMissingTable)
		}
		os.Exit(cli.ExitError)
	}
}
