package main

import (
	"os"

	strobecmder "github.com/papercomputeco/strobe/cmd/strobe"
)

func main() {
	cmd := strobecmder.NewStrobeCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
