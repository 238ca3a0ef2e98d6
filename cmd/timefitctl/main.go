package main

import (
	"context"
	"fmt"
	"os"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
