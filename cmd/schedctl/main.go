package main

import (
	"os"

	"github.com/noah-isme/academic-scheduler-api/cmd/schedctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
