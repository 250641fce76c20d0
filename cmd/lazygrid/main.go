package main

import (
	"os"

	"github.com/rebeliceyang/lazygrid/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
