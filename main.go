// ABOUTME: Entry point for the rentctl CLI
// ABOUTME: Terminal client for the vehicle rental reservation backend

package main

import (
	"fmt"
	"os"

	"github.com/openrental/rentctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
