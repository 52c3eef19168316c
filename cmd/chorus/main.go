// Package main is the single-binary entrypoint for chorus.
package main

import "github.com/chorus-network/chorus/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
