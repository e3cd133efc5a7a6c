// Package ui holds the presentational primitives shared by pages.
package ui

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
)

// Variant selects a button style
type Variant string

const (
	VariantDefault Variant = "default"
	VariantOutline Variant = "outline"
	VariantLink    Variant = "link"
)

// ParseVariant maps a name to a Variant; unknown names fall back to VariantDefault
func ParseVariant(name string) Variant {
	switch v := Variant(name); v {
	case VariantDefault, VariantOutline, VariantLink:
		return v
	default:
		return VariantDefault
	}
}

// Classes returns the CSS classes for the variant
func (v Variant) Classes() []string {
	switch ParseVariant(string(v)) {
	case VariantOutline:
		return []string{"btn", "btn-outline"}
	case VariantLink:
		return []string{"btn", "btn-link"}
	default:
		return []string{"btn", "btn-default"}
	}
}

// Link is a navigation action: a label and the route path it leads to
type Link struct {
	Label   string  `json:"label"`
	To      string  `json:"to"`
	Variant Variant `json:"variant"`
}

// Button renders a Link as an anchor styled as a button
type Button struct {
	app.Compo

	Link Link
}

// NewButton wraps a link in a Button
func NewButton(l Link) *Button {
	return &Button{Link: l}
}

func (b *Button) Render() app.UI {
	return app.A().
		Href(b.Link.To).
		Class(b.Link.Variant.Classes()...).
		Text(b.Link.Label)
}
