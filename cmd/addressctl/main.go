package main

import (
	"os"

	"address-console/cmd/addressctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
