package main

import (
	"os"

	"github.com/go-pasc/pasc/cmd/pasc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
