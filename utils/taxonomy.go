package utils

import (
	"regexp"
	"strings"
)

// Diet tags understood by the compatibility checker.
const (
	DietVegan       = "vegan"
	DietVegetarian  = "vegetarian"
	DietPescatarian = "pescatarian"
	DietKeto        = "keto"
	DietPaleo       = "paleo"
	DietGlutenFree  = "gluten-free"
	DietDairyFree   = "dairy-free"
	DietHalal       = "halal"
)

// Allergen tags understood by the compatibility checker.
const (
	AllergenDairy     = "dairy"
	AllergenEggs      = "eggs"
	AllergenFish      = "fish"
	AllergenShellfish = "shellfish"
	AllergenTreeNuts  = "tree_nuts"
	AllergenPeanuts   = "peanuts"
	AllergenWheat     = "wheat"
	AllergenSoy       = "soy"
	AllergenSesame    = "sesame"
	AllergenGluten    = "gluten"
)

// IngredientTags is one verified taxonomy entry: which allergens an
// ingredient carries and which diets it is incompatible with.
type IngredientTags struct {
	Allergens         []string
	IncompatibleDiets []string
}

// ingredientTaxonomy is the static, audited ingredient table. Compatibility
// verdicts come only from here, never from a generative model, so every
// allergen decision can be traced to a row in this map. An ingredient absent
// from the table is unknown, not safe.
var ingredientTaxonomy = map[string]IngredientTags{
	// Meat & poultry
	"chicken":    {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"beef":       {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"pork":       {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},
	"bacon":      {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},
	"ham":        {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},
	"lamb":       {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"turkey":     {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"duck":       {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"sausage":    {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"gelatin":    {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"lard":       {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},
	"pepperoni":  {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},
	"meatball":   {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"steak":      {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian}},
	"prosciutto": {IncompatibleDiets: []string{DietVegan, DietVegetarian, DietPescatarian, DietHalal}},

	// Fish & shellfish
	"salmon":   {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"tuna":     {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"cod":      {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"anchovy":  {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"sardine":  {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"shrimp":   {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"prawn":    {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"crab":     {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"lobster":  {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"oyster":   {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"mussel":   {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"scallop":  {Allergens: []string{AllergenShellfish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},
	"fish":     {Allergens: []string{AllergenFish}, IncompatibleDiets: []string{DietVegan, DietVegetarian}},

	// Dairy & eggs
	"milk":      {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"cheese":    {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"butter":    {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree}},
	"cream":     {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"yogurt":    {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"ghee":      {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree}},
	"whey":      {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"casein":    {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"mozzarella": {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietVegan, DietDairyFree, DietPaleo}},
	"egg":       {Allergens: []string{AllergenEggs}, IncompatibleDiets: []string{DietVegan}},
	"mayonnaise": {Allergens: []string{AllergenEggs}, IncompatibleDiets: []string{DietVegan}},

	// Grains & gluten
	"wheat":     {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"bread":     {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"pasta":     {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"flour":     {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"noodle":    {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"couscous":  {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"barley":    {Allergens: []string{AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"rye":       {Allergens: []string{AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"tortilla":  {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"cracker":   {Allergens: []string{AllergenWheat, AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},
	"rice":      {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"oats":      {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"quinoa":    {IncompatibleDiets: []string{DietKeto}},
	"corn":      {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"cereal":    {Allergens: []string{AllergenGluten}, IncompatibleDiets: []string{DietGlutenFree, DietKeto, DietPaleo}},

	// Legumes, nuts, seeds
	"peanut":    {Allergens: []string{AllergenPeanuts}, IncompatibleDiets: []string{DietPaleo}},
	"almond":    {Allergens: []string{AllergenTreeNuts}},
	"walnut":    {Allergens: []string{AllergenTreeNuts}},
	"cashew":    {Allergens: []string{AllergenTreeNuts}},
	"pecan":     {Allergens: []string{AllergenTreeNuts}},
	"pistachio": {Allergens: []string{AllergenTreeNuts}},
	"hazelnut":  {Allergens: []string{AllergenTreeNuts}},
	"soy":       {Allergens: []string{AllergenSoy}, IncompatibleDiets: []string{DietPaleo}},
	"tofu":      {Allergens: []string{AllergenSoy}, IncompatibleDiets: []string{DietPaleo}},
	"edamame":   {Allergens: []string{AllergenSoy}, IncompatibleDiets: []string{DietPaleo}},
	"sesame":    {Allergens: []string{AllergenSesame}},
	"tahini":    {Allergens: []string{AllergenSesame}},
	"lentil":    {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"chickpea":  {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"bean":      {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"hummus":    {Allergens: []string{AllergenSesame}, IncompatibleDiets: []string{DietKeto, DietPaleo}},

	// Sweeteners & high-carb
	"sugar":   {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"honey":   {IncompatibleDiets: []string{DietVegan, DietKeto}},
	"syrup":   {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"potato":  {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"banana":  {IncompatibleDiets: []string{DietKeto}},
	"mango":   {IncompatibleDiets: []string{DietKeto}},
	"grape":   {IncompatibleDiets: []string{DietKeto}},
	"raisin":  {IncompatibleDiets: []string{DietKeto}},
	"date":    {IncompatibleDiets: []string{DietKeto}},
	"candy":   {IncompatibleDiets: []string{DietKeto, DietPaleo}},
	"chocolate": {Allergens: []string{AllergenDairy}, IncompatibleDiets: []string{DietKeto, DietPaleo, DietDairyFree}},

	// Clean for every supported diet; listed so they resolve as verified.
	"apple":       {},
	"broccoli":    {},
	"spinach":     {},
	"kale":        {},
	"carrot":      {},
	"tomato":      {},
	"cucumber":    {},
	"lettuce":     {},
	"avocado":     {},
	"olive oil":   {},
	"coconut oil": {},
	"mushroom":    {},
	"onion":       {},
	"garlic":      {},
	"pepper":      {},
	"zucchini":    {},
	"cauliflower": {},
	"berry":       {},
	"strawberry":  {},
	"blueberry":   {},
	"orange":      {},
	"lemon":       {},
}

var ingredientWordSplit = regexp.MustCompile(`[^a-z]+`)

// LookupIngredient resolves free-text ingredient phrasing against the
// taxonomy: first an exact normalized match, then a match on any contained
// word (so "grilled chicken breast" resolves to "chicken", and "eggs" to
// "egg"). Returns nil when the ingredient is not in the taxonomy — callers
// must treat that as unverifiable, never as safe.
func LookupIngredient(name string) *IngredientTags {
	norm := strings.ToLower(strings.TrimSpace(name))
	if tags, ok := ingredientTaxonomy[norm]; ok {
		return &tags
	}
	for _, word := range ingredientWordSplit.Split(norm, -1) {
		if word == "" {
			continue
		}
		if tags, ok := ingredientTaxonomy[word]; ok {
			return &tags
		}
		// naive singular: "eggs" -> "egg", "noodles" -> "noodle"
		if strings.HasSuffix(word, "s") {
			if tags, ok := ingredientTaxonomy[strings.TrimSuffix(word, "s")]; ok {
				return &tags
			}
		}
	}
	return nil
}
