// Package main is the entry point for the ClickSafe admin CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Adeela565/ClickSafe/cmd/clicksafe/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
