package main

import (
	"os"

	"github.com/jfelder/codesweep/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
