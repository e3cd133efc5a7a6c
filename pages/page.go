// Package pages holds the routed screens of the Agenteur front end. Each page
// has a single rendered state built from its static Content.
package pages

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/ui"
)

// SiteName is shown as the landing title and as the document title suffix
const SiteName = "Agenteur"

// Content is everything a page renders
type Content struct {
	Title   string
	Message string
	Links   []ui.Link
	Hero    bool // render the title at landing-page size
}

// Page is a routed component that declares its content up front, so routers
// and tests can inspect navigation targets without rendering
type Page interface {
	app.Composer
	Content() Content
}

// DocumentTitle returns the browser title for a page
func DocumentTitle(c Content) string {
	if c.Title == SiteName {
		return SiteName
	}
	return c.Title + " · " + SiteName
}

func render(c Content) app.UI {
	titleClass := "page-title"
	if c.Hero {
		titleClass = "page-title-hero"
	}

	buttons := make([]app.UI, 0, len(c.Links))
	for _, l := range c.Links {
		buttons = append(buttons, ui.NewButton(l))
	}

	body := []app.UI{
		app.H1().Class(titleClass).Text(c.Title),
		app.P().Class("muted").Text(c.Message),
	}
	if len(buttons) > 1 {
		body = append(body, app.Div().Class("actions").Body(buttons...))
	} else {
		body = append(body, buttons...)
	}

	return app.Main().Class("page").Body(body...)
}

// setTitle updates the document head; called on prerender and on navigation
func setTitle(ctx app.Context, c Content) {
	ctx.Page().SetTitle(DocumentTitle(c))
	ctx.Page().SetDescription(c.Message)
}
