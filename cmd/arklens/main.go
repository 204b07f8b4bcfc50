package main

import (
	"os"

	"github.com/mingzhai/arklens/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
