package linkhub

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultTheme  = "dark"
	OtherCategory = "Other"
)

// Categories is the fixed set a link category must belong to. Empty is also allowed.
var Categories = []string{"Projects", "Clubs", "Research", "Social Media", "Education", "Work", "Personal", OtherCategory}

var (
	validate        = validator.New()
	usernamePattern = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)
)

type (
	Link struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		URL      string `json:"url"`
		Category string `json:"category"`
	}

	Profile struct {
		ID        string
		Username  string
		UserID    string
		Links     []Link
		Theme     string
		Version   int64
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

// ThemeOrDefault returns the stored theme id, or DefaultTheme if none was stored.
func (p *Profile) ThemeOrDefault() string {
	if p.Theme == "" {
		return DefaultTheme
	}
	return p.Theme
}

func (p *Profile) OwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}

// NormalizeURL prefixes https:// when no http(s) scheme is present and checks the
// result is a well-formed http URL.
func NormalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", invalid("url is required")
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		u = "https://" + u
	}
	if err := validate.Var(u, "http_url"); err != nil {
		return "", invalid("url %q is malformed", raw)
	}
	return u, nil
}

func ValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidateLink checks the user supplied fields of a link and returns it with the
// url normalized. The id is left zero.
func ValidateLink(title, url, category string) (Link, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Link{}, invalid("title is required")
	}
	normalized, err := NormalizeURL(url)
	if err != nil {
		return Link{}, err
	}
	category = strings.TrimSpace(category)
	if !ValidCategory(category) {
		return Link{}, invalid("unknown category %q", category)
	}
	return Link{Title: title, URL: normalized, Category: category}, nil
}

func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidateUsername normalizes raw and checks it against the 3-30 char [a-z0-9-] pattern.
func ValidateUsername(raw string) (string, error) {
	username := NormalizeUsername(raw)
	if !usernamePattern.MatchString(username) {
		return "", invalid("username must be 3-30 characters of letters, digits or '-'")
	}
	return username, nil
}

func cloneLinks(links []Link) []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

func indexOf(links []Link, id int64) int {
	for i := range links {
		if links[i].ID == id {
			return i
		}
	}
	return -1
}

// AssignIDs returns a copy of links with fresh ids assigned in order.
func AssignIDs(links []Link, now time.Time) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		l.ID = nextLinkID(out, now)
		out = append(out, l)
	}
	return out
}

// nextLinkID returns an id unique within links. Ids stay close to the creation
// time in milliseconds but never collide with an existing one.
func nextLinkID(links []Link, now time.Time) int64 {
	id := now.UnixMilli()
	for _, l := range links {
		if l.ID >= id {
			id = l.ID + 1
		}
	}
	return id
}
