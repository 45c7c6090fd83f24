// Package main provides the entry point for the resume conversion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var rootCmd = newRootCmd()

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
