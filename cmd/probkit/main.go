package main

import (
	"os"

	"github.com/wyfcoding/probkit/cmd/probkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
