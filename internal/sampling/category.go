package sampling

import (
	"fmt"
	"strings"
)

// Category is a content-type classification tag used to stratify sampling
type Category int

const (
	CategoryJSON Category = iota
	CategoryHTML
	CategoryJavaScript
	CategoryCSS
	CategoryImage
	CategoryOther

	numCategories
)

var categoryNames = [numCategories]string{
	CategoryJSON:       "json",
	CategoryHTML:       "html",
	CategoryJavaScript: "javascript",
	CategoryCSS:        "css",
	CategoryImage:      "image",
	CategoryOther:      "other",
}

// String returns the category tag
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Categories returns every category in declaration order
func Categories() []Category {
	cats := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		cats = append(cats, c)
	}
	return cats
}

// ParseCategory resolves a category tag (case-insensitive)
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category '%s'", s)
}

// Rule maps a content-type substring to a category
type Rule struct {
	Pattern  string
	Category Category
}

// DefaultRules is the reference priority order. The first matching rule wins,
// so a label mentioning both json and html resolves to json.
var DefaultRules = []Rule{
	{Pattern: "json", Category: CategoryJSON},
	{Pattern: "html", Category: CategoryHTML},
	{Pattern: "javascript", Category: CategoryJavaScript},
	{Pattern: "css", Category: CategoryCSS},
	{Pattern: "image", Category: CategoryImage},
}

// Categorizer classifies content-type labels with an ordered rule list
type Categorizer struct {
	rules []Rule
}

// NewCategorizer creates a categorizer. Patterns are lower-cased once here.
func NewCategorizer(rules []Rule) *Categorizer {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		normalized[i] = Rule{Pattern: strings.ToLower(r.Pattern), Category: r.Category}
	}
	return &Categorizer{rules: normalized}
}

var defaultCategorizer = NewCategorizer(DefaultRules)

// Categorize returns the category of the first rule whose pattern occurs in
// the lower-cased label, or CategoryOther
func (c *Categorizer) Categorize(label string) Category {
	lower := strings.ToLower(label)
	for _, r := range c.rules {
		if r.Pattern == "" || !r.Category.Valid() {
			continue
		}
		if strings.Contains(lower, r.Pattern) {
			return r.Category
		}
	}
	return CategoryOther
}

// Categorize classifies a label using DefaultRules
func Categorize(label string) Category {
	return defaultCategorizer.Categorize(label)
}

// PrimaryType strips parameters from a content-type label
// ("application/json; charset=utf-8" -> "application/json")
func PrimaryType(label string) string {
	if idx := strings.Index(label, ";"); idx != -1 {
		label = label[:idx]
	}
	return strings.TrimSpace(label)
}
