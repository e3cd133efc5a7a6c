package pages

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/ui"
)

// Home is the landing page
type Home struct {
	app.Compo
}

func (h *Home) Content() Content {
	return Content{
		Title:   SiteName,
		Message: "Deploy AI agents at scale.",
		Hero:    true,
		Links: []ui.Link{
			{Label: "Log in", To: "/login", Variant: ui.VariantDefault},
			{Label: "Sign up", To: "/signup", Variant: ui.VariantOutline},
		},
	}
}

func (h *Home) OnPreRender(ctx app.Context) { setTitle(ctx, h.Content()) }

func (h *Home) OnNav(ctx app.Context) { setTitle(ctx, h.Content()) }

func (h *Home) Render() app.UI {
	return render(h.Content())
}
