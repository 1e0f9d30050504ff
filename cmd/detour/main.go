// Package main provides the detour CLI, a thin front end over the route
// dispatch engine and its SQLite reference executor.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
