// Command lyrebird-cli is the terminal client for the Lyrebird API.
package main

import (
	"fmt"
	"os"

	"github.com/kbukum/lyrebird/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
