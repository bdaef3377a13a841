// main package for laralint command-line tool
// Package main is the entry point for the laralint CLI.
package main

import "laralint.dev/pkg/laralint/cmd"

func main() {
	cmd.Execute()
}
