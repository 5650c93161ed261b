package main

import (
	"os"

	"github.com/pkgw/tt-weave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
