// Command imgspace manages image-labeling workspaces stored in SQLite:
// workspaces, streams, labels, sets and images, with bulk ingestion from a
// directory tree.
package main

import "os"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
