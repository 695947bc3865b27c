// Package scrape extracts recipes from saved recipe web pages.
//
// Most recipe sites, chefkoch.de included, embed a schema.org Recipe as
// JSON-LD. The page itself has to be fetched by the caller; this package
// only reads HTML.
package scrape

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"recipescan/internal/recipe"
	"recipescan/pkg/models"
)

// DefaultTitle is used for recipes without a name.
const DefaultTitle = "Unbekanntes Rezept"

var (
	// ErrNoRecipeSchema is returned when a page has no JSON-LD Recipe.
	ErrNoRecipeSchema = errors.New("no schema.org Recipe found in page")

	// ErrInvalidHTML is returned when the page cannot be parsed.
	ErrInvalidHTML = errors.New("invalid HTML document")
)

var (
	reFirstNumber = regexp.MustCompile(`\d+`)
	reChefkochURL = regexp.MustCompile(`^https?://(www\.)?chefkoch\.de/rezepte/`)
)

// IsChefkochURL reports whether rawURL points to a chefkoch.de recipe.
func IsChefkochURL(rawURL string) bool {
	return reChefkochURL.MatchString(rawURL)
}

// page holds what ParseHTML collects from the document tree.
type page struct {
	scripts   []string
	canonical string
}

// ParseHTML reads an HTML page and returns the first schema.org Recipe found
// in its JSON-LD blocks.
func ParseHTML(r io.Reader) (*models.Recipe, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHTML, err)
	}

	var p page
	collect(doc, &p)

	for _, script := range p.scripts {
		var data any
		if err := json.Unmarshal([]byte(script), &data); err != nil {
			continue // broken blocks are common, keep looking
		}
		if node := findRecipe(data); node != nil {
			rec := toRecipe(node)
			if rec.SourceURL == "" {
				rec.SourceURL = p.canonical
			}
			rec.Source = sourceName(rec.SourceURL)
			return &rec, nil
		}
	}
	return nil, ErrNoRecipeSchema
}

func collect(n *html.Node, p *page) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script:
			if strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json") {
				var sb strings.Builder
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						sb.WriteString(c.Data)
					}
				}
				p.scripts = append(p.scripts, sb.String())
			}
		case atom.Link:
			if p.canonical == "" && strings.EqualFold(attr(n, "rel"), "canonical") {
				p.canonical = attr(n, "href")
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, p)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// findRecipe walks objects, arrays and @graph containers for a Recipe node.
func findRecipe(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if node := findRecipe(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isType(t["@type"], "Recipe") {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findRecipe(graph)
		}
	}
	return nil
}

// isType matches "@type" given as a string or as a list of strings.
func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func toRecipe(node map[string]any) models.Recipe {
	r := models.EmptyRecipe()

	r.Title = strings.TrimSpace(str(node["name"]))
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.Description = strings.Join(instructionSteps(node["recipeInstructions"]), "\n\n")
	if n, ok := portions(node["recipeYield"]); ok {
		r.Portions = n
	}

	if list, ok := node["recipeIngredient"].([]any); ok {
		for _, item := range list {
			if s := strings.TrimSpace(str(item)); s != "" {
				r.Ingredients = append(r.Ingredients, recipe.ParseIngredient(s))
			}
		}
	}

	if m, ok := recipe.ParseISODuration(str(node["prepTime"])); ok {
		r.PrepTimeMinutes = &m
	}
	if m, ok := recipe.ParseISODuration(str(node["cookTime"])); ok {
		r.CookTimeMinutes = &m
	}
	if r.PrepTimeMinutes == nil && r.CookTimeMinutes == nil {
		if m, ok := recipe.ParseISODuration(str(node["totalTime"])); ok {
			r.PrepTimeMinutes = &m
		}
	}

	r.SourceURL = str(node["url"])
	return r
}

// instructionSteps flattens plain strings, HowToStep objects and the steps
// nested in HowToSection objects.
func instructionSteps(v any) []string {
	var steps []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			steps = append(steps, s)
		}
	case []any:
		for _, item := range t {
			steps = append(steps, instructionSteps(item)...)
		}
	case map[string]any:
		if isType(t["@type"], "HowToSection") {
			return instructionSteps(t["itemListElement"])
		}
		if s := strings.TrimSpace(str(t["text"])); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

// portions reads recipeYield given as "4 Portionen", 4 or ["4", "4 Portionen"].
func portions(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 1 {
			return int(t), true
		}
	case string:
		if m := reFirstNumber.FindString(t); m != "" {
			if n, err := strconv.Atoi(m); err == nil && n > 0 {
				return n, true
			}
		}
	case []any:
		if len(t) > 0 {
			return portions(t[0])
		}
	}
	return 0, false
}

// str renders JSON scalars as strings and ignores everything else.
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// sourceName derives a short source label from the recipe URL.
func sourceName(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if IsChefkochURL(rawURL) {
		return "chefkoch"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
