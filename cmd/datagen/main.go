package main

import (
	"os"

	"github.com/willfong/restaurant-datagen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
