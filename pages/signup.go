package pages

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"agenteur.ai/web/ui"
)

// Signup mirrors Login
type Signup struct {
	app.Compo
}

func (p *Signup) Content() Content {
	return Content{
		Title:   "Sign up",
		Message: "Signup form coming soon.",
		Links: []ui.Link{
			{Label: "Already have an account? Log in", To: "/login", Variant: ui.VariantLink},
		},
	}
}

func (p *Signup) OnPreRender(ctx app.Context) { setTitle(ctx, p.Content()) }

func (p *Signup) OnNav(ctx app.Context) { setTitle(ctx, p.Content()) }

func (p *Signup) Render() app.UI {
	return render(p.Content())
}
