//go:build mage

// Package main provides build targets for the imgspace project using Mage.
//
// Usage:
//
//	mage build       Compile the imgspace binary to bin/
//	mage install     Install imgspace to GOPATH/bin
//	mage clean       Remove build artifacts
//	mage test:all    Run all tests
//	mage test:unit   Run tests outside the CLI package
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Write a coverage profile to bin/
//	mage lint        Run golangci-lint
//	mage stats       Print Go lines of code per package
package main

import "github.com/magefile/mage/sh"

const binGo = "go"

// version returns the version stamped into the binary: the nearest git tag,
// or "dev" outside a tagged checkout.
func version() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || out == "" {
		return "dev"
	}
	return out
}
