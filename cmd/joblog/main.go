// joblog - Job Duration Log Checker
//
// joblog reads a job log of START/END events, pairs them per job, and
// reports jobs that ran too long, never finished, or ended without starting.
package main

import (
	"os"

	"github.com/ccollicutt/joblog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
