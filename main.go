package main

import (
	"os"

	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/routes"
)

func main() {
	// Routes must be known on both sides: the browser uses them for
	// client-side navigation, the server for prerendering
	routes.Default().Register()

	// In the browser this starts the app and never returns
	app.RunWhenOnBrowser()

	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
