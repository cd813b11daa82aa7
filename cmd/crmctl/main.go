package main

import (
	"os"

	"github.com/Henok-Haile/crm-dashboard/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Main(version, os.Args[1:]))
}
