package main

import (
	"os"

	"github.com/avitaltamir/vibeselect/internal/app"
	"github.com/avitaltamir/vibeselect/internal/cli"
)

var version = "dev"

func main() {
	// Set the app version for display in the UI
	app.Version = version

	os.Exit(cli.Execute())
}
