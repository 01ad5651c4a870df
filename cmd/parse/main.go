package main

import (
	"fmt"
	"os"

	"ingredient-parser/internal/pkg/common"
)

func main() {
	defer common.Sync()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
