package main

import (
	"os"

	"github.com/SRINIVASINDIA/Local-guide/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
