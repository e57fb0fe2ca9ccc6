package main

import (
	"os"

	"github.com/toffan/running/cmd/running/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
