package main

import (
	"fmt"
	"os"

	"github.com/example/convtestgen/internal/config"
)

func main() {
	cmd := NewRootCmd()
	cmd.SetArgs(config.ExpandShortAliases(os.Args[1:]))

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
