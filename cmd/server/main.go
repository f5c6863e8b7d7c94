package main

import (
	"os"

	"github.com/dmitrijs2005/resumebuilder/internal/buildinfo"
	"github.com/dmitrijs2005/resumebuilder/internal/server"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)
	os.Exit(server.Main())
}
