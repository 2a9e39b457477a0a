package main

import (
	"github.com/idilsaglam/checklist/internal/cli"
)

// Version information (injected at build time)
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	cli.SetVersion(Version, Commit, Date)
	cli.Execute()
}
