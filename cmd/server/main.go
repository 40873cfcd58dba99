// Package main is the dokodemo-door entry point.
//
// main stays minimal: it builds the cobra command tree and runs it. Loading
// configuration, opening the store and starting the server happen in the
// subcommands, and all real logic lives in internal/.
//
//	dokodemo-door            same as `dokodemo-door serve`
//	dokodemo-door serve      migrate, then serve HTTP until SIGINT/SIGTERM
//	dokodemo-door migrate    apply pending migrations and exit
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
