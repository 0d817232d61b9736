package main

import (
	"os"

	"github.com/walletkun/jobapp-tracker/cmd/tracker/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
