package main

import (
	"fmt"
	"os"

	"github.com/archguard/archguard/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "archguard: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
