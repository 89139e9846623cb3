package main

import (
	"os"

	"github.com/giantswarm/personapool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
