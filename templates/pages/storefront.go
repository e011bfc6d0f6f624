package pages

import (
	"fmt"
	"storefront/models"
	"strings"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

type theme struct {
	font    string
	radius  string
	bg      string
	text    string
	heading string
}

var themes = map[models.Template]theme{
	models.TemplateClassic: {font: "Georgia, serif", radius: "6px", bg: "#fffdf8", text: "#111111", heading: "normal"},
	models.TemplateMinimal: {font: "system-ui, sans-serif", radius: "0", bg: "#ffffff", text: "#111111", heading: "300"},
	models.TemplateBold:    {font: "Arial Black, Impact, sans-serif", radius: "14px", bg: "#111111", text: "#fafafa", heading: "900"},
}

const (
	defaultPrimary = "#1f2937"
	defaultAccent  = "#f59e0b"
)

var regionLabels = map[string]string{
	"metro_manila": "Metro Manila",
	"luzon":        "Luzon",
	"visayas":      "Visayas",
	"mindanao":     "Mindanao",
}

// storeVars sets the CSS custom properties the storefront stylesheet reads.
// Colors are validated as #rrggbb before they are stored.
func storeVars(store *models.Store) templ.SafeCSS {
	t, ok := themes[store.Template]
	if !ok {
		t = themes[models.TemplateClassic]
	}
	return templ.SafeCSS(fmt.Sprintf("--primary:%s;--accent:%s;--radius:%s;--font:%s;--bg:%s;--text:%s;--heading:%s;",
		orDefault(store.PrimaryColor, defaultPrimary), orDefault(store.AccentColor, defaultAccent),
		t.radius, t.font, t.bg, t.text, t.heading))
}

func peso(amount decimal.Decimal) string {
	return "₱" + amount.StringFixed(2)
}

func stockLabel(stock int) string {
	if stock == 0 {
		return "Sold out"
	}
	return fmt.Sprintf("%d in stock", stock)
}

func regionLabel(region string) string {
	return orDefault(regionLabels[region], region)
}

func contactLine(store *models.Store) string {
	parts := make([]string, 0, 2)
	if store.ContactEmail != "" {
		parts = append(parts, store.ContactEmail)
	}
	if store.ContactPhone != "" {
		parts = append(parts, store.ContactPhone)
	}
	return strings.Join(parts, " · ")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
