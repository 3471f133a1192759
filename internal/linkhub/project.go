package linkhub

import (
	"sort"
	"strings"
)

type Field string

const (
	FieldTitle    Field = "title"
	FieldURL      Field = "url"
	FieldCategory Field = "category"
	// FieldAll matches the search term against title, url and category.
	FieldAll Field = "all"
)

type (
	Filter struct {
		Search   string
		Field    Field
		Category string
	}

	Group struct {
		Category string `json:"category"`
		Links    []Link `json:"links"`
	}
)

func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FieldTitle, nil
	case FieldTitle, FieldURL, FieldCategory, FieldAll:
		return f, nil
	default:
		return "", invalid("unknown filter field %q", s)
	}
}

// Project returns the links matching f in their original order. links is not modified.
func Project(links []Link, f Filter) []Link {
	term := strings.ToLower(f.Search)
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if term != "" && !matches(l, f.Field, term) {
			continue
		}
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matches(l Link, field Field, term string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	switch field {
	case FieldURL:
		return contains(l.URL)
	case FieldCategory:
		return contains(l.Category)
	case FieldAll:
		return contains(l.Title) || contains(l.URL) || contains(l.Category)
	default:
		return contains(l.Title)
	}
}

// GroupByCategory buckets links by category, with an empty category folded into
// "Other". Buckets are sorted by name, links keep their sequence order.
func GroupByCategory(links []Link) []Group {
	index := map[string]int{}
	groups := make([]Group, 0)
	for _, l := range links {
		name := l.Category
		if name == "" {
			name = OtherCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Category: name})
		}
		groups[i].Links = append(groups[i].Links, l)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

// UsedCategories lists the distinct non-empty categories in links, sorted.
func UsedCategories(links []Link) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, l := range links {
		if l.Category == "" {
			continue
		}
		if _, ok := seen[l.Category]; ok {
			continue
		}
		seen[l.Category] = struct{}{}
		out = append(out, l.Category)
	}
	sort.Strings(out)
	return out
}
