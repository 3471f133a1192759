package models

import (
	"time"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
)

type LinkReq struct {
	Title    string `json:"title" validate:"required"`
	URL      string `json:"url" validate:"required"`
	Category string `json:"category"`
}

type ProfileCreateReq struct {
	Username string    `json:"username" validate:"required"`
	Theme    string    `json:"theme"`
	Links    []LinkReq `json:"links" validate:"required,min=1,dive"`
}

type ReorderReq struct {
	FromID int64 `json:"from_id" validate:"required"`
	ToID   int64 `json:"to_id" validate:"required"`
}

type ThemeReq struct {
	Theme string `json:"theme" validate:"required"`
}

type LinkResp struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

type ProfileResp struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	UserID    string     `json:"user_id"`
	Theme     string     `json:"theme"`
	Links     []LinkResp `json:"links"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type GroupResp struct {
	Category string     `json:"category"`
	Links    []LinkResp `json:"links"`
}

type ThemeResp struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Primary      string            `json:"primary"`
	Secondary    string            `json:"secondary"`
	Accent       string            `json:"accent"`
	Background   string            `json:"background,omitempty"`
	Text         string            `json:"text,omitempty"`
	ContrastText string            `json:"contrast_text,omitempty"`
	Variables    map[string]string `json:"variables"`
}

type ProfileViewResp struct {
	Profile    ProfileResp `json:"profile"`
	Theme      ThemeResp   `json:"theme"`
	Links      []LinkResp  `json:"links"`
	Groups     []GroupResp `json:"groups"`
	Categories []string    `json:"categories"`
	IsOwner    bool        `json:"is_owner"`
	ShareURL   string      `json:"share_url"`
}

type AvailabilityResp struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

type ShareResp struct {
	URL string `json:"url"`
}

type UserResp struct {
	ID    string `json:"user_id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type MeResp struct {
	User     UserResp      `json:"user"`
	Profiles []ProfileResp `json:"profiles"`
}

// Error codes carried in ErrorResp.Code.
const (
	CodeValidationFailed = "validation_failed"
	CodeUnauthenticated  = "unauthenticated"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeUsernameTaken    = "username_taken"
	CodeVersionConflict  = "version_conflict"
	CodeRemoteCall       = "remote_call_failed"
	CodeInternal         = "internal"
)

type ErrorResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func LinkToResp(l linkhub.Link) LinkResp {
	return LinkResp{ID: l.ID, Title: l.Title, URL: l.URL, Category: l.Category}
}

func LinksToResp(links []linkhub.Link) []LinkResp {
	out := make([]LinkResp, len(links))
	for i := range links {
		out[i] = LinkToResp(links[i])
	}
	return out
}

func ProfileToResp(p *linkhub.Profile) ProfileResp {
	return ProfileResp{
		ID:        p.ID,
		Username:  p.Username,
		UserID:    p.UserID,
		Theme:     p.ThemeOrDefault(),
		Links:     LinksToResp(p.Links),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ProfilesToResp(ps []linkhub.Profile) []ProfileResp {
	out := make([]ProfileResp, len(ps))
	for i := range ps {
		out[i] = ProfileToResp(&ps[i])
	}
	return out
}

func ThemeToResp(t linkhub.Theme) ThemeResp {
	vars := map[string]string{}
	for _, v := range t.CSSVariables() {
		vars[v.Name] = v.Value
	}
	return ThemeResp{
		ID:           t.ID,
		Name:         t.Name,
		Primary:      t.Primary,
		Secondary:    t.Secondary,
		Accent:       t.Accent,
		Background:   t.Background,
		Text:         t.Text,
		ContrastText: t.ContrastText,
		Variables:    vars,
	}
}

func GroupsToResp(groups []linkhub.Group) []GroupResp {
	out := make([]GroupResp, len(groups))
	for i := range groups {
		out[i] = GroupResp{Category: groups[i].Category, Links: LinksToResp(groups[i].Links)}
	}
	return out
}

// ToLinks converts response links back into domain links.
func (r ProfileResp) ToLinks() []linkhub.Link {
	out := make([]linkhub.Link, len(r.Links))
	for i, l := range r.Links {
		out[i] = linkhub.Link{ID: l.ID, Title: l.Title, URL: l.URL, Category: l.Category}
	}
	return out
}
