package main

import (
	"os"

	"github.com/harmonyquest/harmonyquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
