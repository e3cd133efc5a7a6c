package pages

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/ui"
)

// Login is the login placeholder; the form is not built yet
type Login struct {
	app.Compo
}

func (p *Login) Content() Content {
	return Content{
		Title:   "Log in",
		Message: "Login form coming soon.",
		Links: []ui.Link{
			{Label: "Don't have an account? Sign up", To: "/signup", Variant: ui.VariantLink},
		},
	}
}

func (p *Login) OnPreRender(ctx app.Context) { setTitle(ctx, p.Content()) }

func (p *Login) OnNav(ctx app.Context) { setTitle(ctx, p.Content()) }

func (p *Login) Render() app.UI {
	return render(p.Content())
}
