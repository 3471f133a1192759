package linkhub

import (
	"fmt"
	"strings"
)

type Theme struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Primary      string `json:"primary"`
	Secondary    string `json:"secondary"`
	Accent       string `json:"accent"`
	Background   string `json:"background,omitempty"`
	Text         string `json:"text,omitempty"`
	ContrastText string `json:"contrast_text,omitempty"`
}

// CSSVariable is one custom property applied to a profile page.
type CSSVariable struct {
	Name  string
	Value string
}

var themes = []Theme{
	{ID: "dark", Name: "Dark", Primary: "#1a1a1a", Secondary: "#2d2d2d", Accent: "#3b82f6", Text: "#ffffff", Background: "#121212", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "light", Name: "Light", Primary: "#ffffff", Secondary: "#f0f0f0", Accent: "#2563eb", Text: "#000000", Background: "#f9f9f9", ContrastText: "rgba(0, 0, 0, 0.9)"},
	{ID: "blue", Name: "Blue", Primary: "#1e3a8a", Secondary: "#2563eb", Accent: "#60a5fa", Text: "#ffffff", Background: "#172554", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "green", Name: "Green", Primary: "#064e3b", Secondary: "#059669", Accent: "#34d399", Text: "#ffffff", Background: "#022c22", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "purple", Name: "Purple", Primary: "#4c1d95", Secondary: "#7c3aed", Accent: "#8b5cf6", Text: "#ffffff", Background: "#2e1065", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "red", Name: "Red", Primary: "#7f1d1d", Secondary: "#dc2626", Accent: "#ef4444", Text: "#ffffff", Background: "#450a0a", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "pink", Name: "Pink", Primary: "#831843", Secondary: "#db2777", Accent: "#f472b6", Text: "#ffffff", Background: "#500724", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "orange", Name: "Orange", Primary: "#7c2d12", Secondary: "#ea580c", Accent: "#fb923c", Text: "#ffffff", Background: "#431407", ContrastText: "rgba(255, 255, 255, 0.9)"},
	{ID: "gradient", Name: "Gradient", Primary: "linear-gradient(135deg, #6366f1 0%, #a855f7 50%, #ec4899 100%)", Secondary: "#4c1d95", Accent: "#f472b6", Text: "#ffffff", Background: "#1a0536", ContrastText: "rgba(255, 255, 255, 0.9)"},
}

// Themes returns a copy of the catalog in display order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func LookupTheme(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ResolveTheme returns the theme for id, falling back to DefaultTheme.
func ResolveTheme(id string) Theme {
	if t, ok := LookupTheme(id); ok {
		return t
	}
	t, _ := LookupTheme(DefaultTheme)
	return t
}

func (t Theme) CSSVariables() []CSSVariable {
	background := t.Background
	if background == "" {
		background = t.Primary
	}
	text := t.Text
	if text == "" {
		text = "#ffffff"
	}
	contrast := t.ContrastText
	if contrast == "" {
		contrast = text
	}
	return []CSSVariable{
		{Name: "--profile-primary", Value: t.Primary},
		{Name: "--profile-secondary", Value: t.Secondary},
		{Name: "--profile-accent", Value: t.Accent},
		{Name: "--profile-background", Value: background},
		{Name: "--profile-text", Value: text},
		{Name: "--profile-contrast-text", Value: contrast},
	}
}

func (t Theme) Stylesheet() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range t.CSSVariables() {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
	}
	b.WriteString("}\n")
	return b.String()
}
