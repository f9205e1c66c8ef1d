package main

import (
	"os"

	"github.com/encukou/portingchart/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
