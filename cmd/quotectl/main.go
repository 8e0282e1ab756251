// Package main is the entry point for quotectl.
package main

import (
	"os"

	"github.com/jsamuelsen/insurance-quote-service/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
