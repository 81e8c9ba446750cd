package main

import (
	"os"

	"lockedflow/cmd/lockedflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
