package main

import (
	"os"

	"github.com/DevWolk/fop-calc/cmd/app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
