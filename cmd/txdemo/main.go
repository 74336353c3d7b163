// Package main is the entry point for txdemo, a command line harness that
// runs the transactional follow-up update against the configured store.
package main

import "github.com/jsamuelsen11/followup-tx/internal/cli"

func main() {
	cli.Execute()
}
