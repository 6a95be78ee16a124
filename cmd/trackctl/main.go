// Package main is trackctl, an operator tool for tracking numbers and
// shipment measurements.
//
// Usage:
//
//	trackctl validate WW123456782
//	trackctl checkdigit 12345678
//	trackctl cbm "100 x 50 x 30"
//	trackctl weight --actual 12 --mode sea "100 x 50 x 30"
//	trackctl generate --db freight.db --count 5
package main

import (
	"os"

	"github.com/hapkiduki/freight-go/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
