package main

import (
	"os"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
