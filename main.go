package main

import (
	"os"

	"github.com/NoBugNinja/Skill-Sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
