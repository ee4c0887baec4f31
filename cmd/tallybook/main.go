package main

import (
	"os"

	"github.com/tallybook/tallybook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
