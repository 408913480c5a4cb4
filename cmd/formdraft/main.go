package main

import (
	"os"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/interface/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
