package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
)

type renderer struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	card    lipgloss.Style
}

func newRenderer(dark bool) renderer {
	fg, muted, border := lipgloss.Color("235"), lipgloss.Color("240"), lipgloss.Color("250")
	if dark {
		fg, muted, border = lipgloss.Color("255"), lipgloss.Color("245"), lipgloss.Color("240")
	}
	return renderer{
		heading: lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:   lipgloss.NewStyle().Foreground(muted),
		label:   lipgloss.NewStyle().Foreground(fg),
		card:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
	}
}

// swatchColor picks a terminal color out of a CSS value. Gradients use their
// first stop.
func swatchColor(css string) lipgloss.Color {
	i := strings.Index(css, "#")
	if i < 0 || len(css) < i+7 {
		return lipgloss.Color("")
	}
	return lipgloss.Color(css[i : i+7])
}

func (r renderer) swatch(t models.ThemeResp) string {
	block := func(css string) string {
		return lipgloss.NewStyle().Background(swatchColor(css)).Render("  ")
	}
	return block(t.Primary) + block(t.Secondary) + block(t.Accent)
}

func (r renderer) themes(themes []models.ThemeResp, current string) string {
	var b strings.Builder
	for _, t := range themes {
		marker := "  "
		if t.ID == current {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, r.swatch(t), r.label.Render(fmt.Sprintf("%-9s", t.ID)), r.muted.Render(t.Name))
	}
	return b.String()
}

func (r renderer) link(l models.LinkResp) string {
	return fmt.Sprintf("%s %s  %s", r.muted.Render(fmt.Sprintf("[%d]", l.ID)), r.label.Render(l.Title), r.muted.Render(l.URL))
}

func (r renderer) profile(v *models.ProfileViewResp, now time.Time) string {
	accent := lipgloss.NewStyle().Bold(true).Foreground(swatchColor(v.Theme.Accent))

	var b strings.Builder
	b.WriteString(accent.Render("@"+v.Profile.Username) + " " + r.swatch(v.Theme) + "\n")
	fmt.Fprintf(&b, "%s\n", r.muted.Render(fmt.Sprintf("%s theme, created %s", v.Theme.Name, humanize.RelTime(v.Profile.CreatedAt, now, "ago", "from now"))))
	if len(v.Categories) > 0 {
		fmt.Fprintf(&b, "%s\n", r.muted.Render("categories: "+strings.Join(v.Categories, ", ")))
	}

	if len(v.Links) == 0 {
		b.WriteString("\n" + r.muted.Render("no links match") + "\n")
		return b.String()
	}
	for _, g := range v.Groups {
		lines := make([]string, 0, len(g.Links)+1)
		lines = append(lines, r.heading.Render(g.Category))
		for _, l := range g.Links {
			lines = append(lines, r.link(l))
		}
		b.WriteString(r.card.Render(strings.Join(lines, "\n")) + "\n")
	}
	if v.IsOwner {
		b.WriteString(r.muted.Render("you own this profile") + "\n")
	}
	b.WriteString(r.muted.Render("share: "+v.ShareURL) + "\n")
	return b.String()
}

func (r renderer) profiles(ps []models.ProfileResp, now time.Time) string {
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, "%s %s\n", r.label.Render(fmt.Sprintf("%-30s", p.Username)),
			r.muted.Render(fmt.Sprintf("%d links, %s theme, %s", len(p.Links), p.Theme, humanize.RelTime(p.CreatedAt, now, "ago", "from now"))))
	}
	return b.String()
}
