// Package visual derives display metadata for catalog items from their names.
//
// The backend item record carries no price or category, so the client keeps a
// static rule table keyed by name substrings. The resulting price hint is
// cosmetic display data, not authoritative pricing.
package visual

import "strings"

// Visual is the derived display metadata for one item.
type Visual struct {
	Emoji      string
	Category   string
	PriceHint  int64  // display price in whole rupees
	Background string // opaque style token for renderers
}

// rule matches when any of its keywords is a substring of the lowercased name.
type rule struct {
	keys []string
	v    Visual
}

// Table order matters: earlier rules win when several keywords match.
var rules = []rule{
	{[]string{"apple"}, Visual{"🍎", "Fruits", 30, "linear-gradient(135deg,#fee2e2,#fff7ed)"}},
	{[]string{"banana"}, Visual{"🍌", "Fruits", 25, "linear-gradient(135deg,#fef9c3,#fff7ed)"}},
	{[]string{"orange"}, Visual{"🍊", "Fruits", 35, "linear-gradient(135deg,#ffedd5,#fff7ed)"}},

	{[]string{"tomato"}, Visual{"🍅", "Vegetables", 35, "linear-gradient(135deg,#fee2e2,#fff7ed)"}},
	{[]string{"onion"}, Visual{"🧅", "Vegetables", 40, "linear-gradient(135deg,#e9d5ff,#f8fafc)"}},
	{[]string{"potato"}, Visual{"🥔", "Vegetables", 30, "linear-gradient(135deg,#ffedd5,#f8fafc)"}},

	{[]string{"milk"}, Visual{"🥛", "Dairy", 55, "linear-gradient(135deg,#dbeafe,#f8fafc)"}},
	{[]string{"egg", "eggs"}, Visual{"🥚", "Dairy", 70, "linear-gradient(135deg,#fef3c7,#fff7ed)"}},
	{[]string{"cheese"}, Visual{"🧀", "Dairy", 110, "linear-gradient(135deg,#fef9c3,#f8fafc)"}},
	{[]string{"butter"}, Visual{"🧈", "Dairy", 95, "linear-gradient(135deg,#ffedd5,#fefce8)"}},

	{[]string{"bread"}, Visual{"🍞", "Bakery", 45, "linear-gradient(135deg,#ffedd5,#fefce8)"}},
	{[]string{"rice"}, Visual{"🍚", "Grains", 120, "linear-gradient(135deg,#dcfce7,#f8fafc)"}},
	{[]string{"atta", "flour"}, Visual{"🌾", "Grains", 49, "linear-gradient(135deg,#fef3c7,#fff7ed)"}},

	{[]string{"dal", "lentil"}, Visual{"🥣", "Pulses", 49, "linear-gradient(135deg,#ffedd5,#fff7ed)"}},
	{[]string{"chana", "rajma", "beans"}, Visual{"🫘", "Pulses", 49, "linear-gradient(135deg,#fee2e2,#fff7ed)"}},

	{[]string{"turmeric", "haldi"}, Visual{"🧡", "Spices", 49, "linear-gradient(135deg,#ffedd5,#fff7ed)"}},
	{[]string{"chilli", "chili"}, Visual{"🌶️", "Spices", 49, "linear-gradient(135deg,#fee2e2,#fff7ed)"}},
	{[]string{"coriander", "dhaniya"}, Visual{"🌿", "Spices", 49, "linear-gradient(135deg,#dcfce7,#f8fafc)"}},
	{[]string{"garam", "masala"}, Visual{"✨", "Spices", 49, "linear-gradient(135deg,#ede9fe,#f8fafc)"}},

	{[]string{"ketchup"}, Visual{"🍅", "Sauces", 49, "linear-gradient(135deg,#fee2e2,#fff7ed)"}},
	{[]string{"pasta"}, Visual{"🍝", "Pantry", 49, "linear-gradient(135deg,#fff7ed,#f8fafc)"}},
	{[]string{"noodle", "noodles"}, Visual{"🍜", "Pantry", 49, "linear-gradient(135deg,#ffedd5,#f8fafc)"}},
	{[]string{"chocolate"}, Visual{"🍫", "Snacks", 49, "linear-gradient(135deg,#e9d5ff,#f8fafc)"}},
}

// fallback always applies when no keyword matches (including empty names).
var fallback = Visual{"🛍️", "General", 49, "linear-gradient(135deg,#e5e7eb,#f8fafc)"}

// Classify returns display metadata for an item name. It is pure and total:
// matching is case-insensitive substring search, the first matching rule by
// table position wins, and the General fallback covers everything else.
func Classify(name string) Visual {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return fallback
	}
	for _, r := range rules {
		for _, k := range r.keys {
			if strings.Contains(n, k) {
				return r.v
			}
		}
	}
	return fallback
}
