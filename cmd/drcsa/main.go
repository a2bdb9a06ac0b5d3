package main

import (
	"os"

	"github.com/regquant/drcsa/cmd/drcsa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
