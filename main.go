package main

import (
	"os"

	"github.com/spigell/candidate-sourcer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
