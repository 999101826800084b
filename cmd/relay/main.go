package main

import (
	"os"

	"github.com/lugondev/clmm-relay/cmd/relay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
