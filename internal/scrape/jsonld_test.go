package scrape

import (
	"errors"
	"strings"
	"testing"

	"recipescan/pkg/models"
)

const chefkochPage = `<!DOCTYPE html>
<html><head>
<link rel="canonical" href="https://www.chefkoch.de/rezepte/123/apfelkuchen.html">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList"}</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Recipe",
  "name": "Omas Apfelkuchen",
  "recipeYield": "12 Portionen",
  "prepTime": "PT30M",
  "cookTime": "PT1H",
  "recipeIngredient": ["500 g Mehl", "½ TL Salz", "3 Eier", "etwas Zimt"],
  "recipeInstructions": [
    {"@type": "HowToStep", "text": "Teig kneten."},
    {"@type": "HowToSection", "name": "Belag", "itemListElement": [
      {"@type": "HowToStep", "text": "Äpfel schälen."},
      {"@type": "HowToStep", "text": "Backen."}
    ]}
  ]
}
</script>
</head><body></body></html>`

func TestParseHTML(t *testing.T) {
	r, err := ParseHTML(strings.NewReader(chefkochPage))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}

	if r.Title != "Omas Apfelkuchen" {
		t.Fatalf("title = %q", r.Title)
	}
	if r.Portions != 12 {
		t.Fatalf("portions = %d, want 12", r.Portions)
	}
	if r.PrepTimeMinutes == nil || *r.PrepTimeMinutes != 30 {
		t.Fatalf("prep = %v, want 30", r.PrepTimeMinutes)
	}
	if r.CookTimeMinutes == nil || *r.CookTimeMinutes != 60 {
		t.Fatalf("cook = %v, want 60", r.CookTimeMinutes)
	}
	if r.Description != "Teig kneten.\n\nÄpfel schälen.\n\nBacken." {
		t.Fatalf("description = %q", r.Description)
	}

	want := []models.Ingredient{
		{Amount: 500, Unit: "g", Name: "Mehl"},
		{Amount: 0.5, Unit: "TL", Name: "Salz"},
		{Amount: 3, Unit: "", Name: "Eier"},
		{Amount: 1, Unit: "piece", Name: "etwas Zimt"},
	}
	if len(r.Ingredients) != len(want) {
		t.Fatalf("ingredients = %+v", r.Ingredients)
	}
	for i := range want {
		if r.Ingredients[i] != want[i] {
			t.Fatalf("ingredient %d = %+v, want %+v", i, r.Ingredients[i], want[i])
		}
	}

	if r.SourceURL != "https://www.chefkoch.de/rezepte/123/apfelkuchen.html" || r.Source != "chefkoch" {
		t.Fatalf("source = %q %q", r.Source, r.SourceURL)
	}
}

func TestParseHTMLGraphAndDefaults(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
{"@graph": [
  {"@type": "WebSite", "name": "Kochblog"},
  {"@type": ["Recipe", "NewsArticle"], "recipeYield": [4, "4 servings"], "totalTime": "PT45M",
   "recipeInstructions": "Alles mischen.", "url": "https://www.example.org/gulasch"}
]}
</script></head></html>`

	r, err := ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if r.Title != DefaultTitle {
		t.Fatalf("title = %q, want default", r.Title)
	}
	if r.PrepTimeMinutes == nil || *r.PrepTimeMinutes != 45 || r.CookTimeMinutes != nil {
		t.Fatalf("total time should fill prep only: prep=%v cook=%v", r.PrepTimeMinutes, r.CookTimeMinutes)
	}
	if r.Portions != 4 || r.Description != "Alles mischen." {
		t.Fatalf("recipe = %+v", r)
	}
	if r.Source != "example.org" {
		t.Fatalf("source = %q", r.Source)
	}
	if r.Ingredients == nil {
		t.Fatalf("ingredients must be an empty list")
	}
}

func TestParseHTMLSkipsBrokenBlocks(t *testing.T) {
	page := `<script type="application/ld+json">{not json</script>
<script type="application/ld+json">[{"@type":"Recipe","name":"Suppe","prepTime":"PT0M"}]</script>`

	r, err := ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if r.Title != "Suppe" || r.PrepTimeMinutes != nil || r.Portions != models.DefaultPortions {
		t.Fatalf("recipe = %+v", r)
	}
}

func TestParseHTMLWithoutRecipe(t *testing.T) {
	_, err := ParseHTML(strings.NewReader(`<html><body><h1>Kein Rezept</h1></body></html>`))
	if !errors.Is(err, ErrNoRecipeSchema) {
		t.Fatalf("error = %v, want ErrNoRecipeSchema", err)
	}
}

func TestIsChefkochURL(t *testing.T) {
	if !IsChefkochURL("https://www.chefkoch.de/rezepte/1234/Kuchen.html") {
		t.Fatalf("chefkoch recipe URL not recognized")
	}
	if IsChefkochURL("https://www.chefkoch.de/magazin/") || IsChefkochURL("https://example.org/rezepte/") {
		t.Fatalf("non-recipe URL accepted")
	}
}
