package voice

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallbacks used when a field is missing from the transcript
const (
	DefaultItem       = "Unknown item"
	DefaultQuantity   = "1 kg"
	DefaultPriceLimit = "₹10/kg"
)

var (
	itemPattern     = regexp.MustCompile(`(?i)(tomatoes|onions|potatoes|carrots|cabbage)`)
	quantityPattern = regexp.MustCompile(`(?i)(\d+)\s*(kg|kilogram)`)
	pricePattern    = regexp.MustCompile(`(?i)(\d+)\s*rupees?`)
)

// Field is one extracted value and whether the transcript actually had it
type Field struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

// Extraction is the raw result of scanning a transcript
type Extraction struct {
	Item       Field `json:"item"`
	Quantity   Field `json:"quantity"`
	PriceLimit Field `json:"price_limit"`
}

// ParsedOrder is an extraction with fallbacks applied
type ParsedOrder struct {
	Item       string   `json:"item"`
	Quantity   string   `json:"quantity"`
	PriceLimit string   `json:"price_limit"`
	Defaulted  []string `json:"defaulted,omitempty"`
}

// Summary renders the order the way the assistant reads it back
func (p ParsedOrder) Summary() string {
	return fmt.Sprintf("%s %s under %s", p.Quantity, p.Item, p.PriceLimit)
}

// Parse runs the three independent extractions. Each takes the first match only.
func Parse(text string) Extraction {
	var ex Extraction

	if m := itemPattern.FindStringSubmatch(text); m != nil {
		ex.Item = Field{Value: capitalize(m[1]), Found: true}
	}
	if m := quantityPattern.FindString(text); m != "" {
		ex.Quantity = Field{Value: m, Found: true}
	}
	if m := pricePattern.FindStringSubmatch(text); m != nil {
		ex.PriceLimit = Field{Value: "₹" + m[1] + "/kg", Found: true}
	}

	return ex
}

// Complete reports whether every field came from the transcript
func (e Extraction) Complete() bool {
	return e.Item.Found && e.Quantity.Found && e.PriceLimit.Found
}

// Order applies the fallbacks and lists the fields that used them.
func (e Extraction) Order() ParsedOrder {
	p := ParsedOrder{
		Item:       e.Item.Value,
		Quantity:   e.Quantity.Value,
		PriceLimit: e.PriceLimit.Value,
	}
	if !e.Item.Found {
		p.Item = DefaultItem
		p.Defaulted = append(p.Defaulted, "item")
	}
	if !e.Quantity.Found {
		p.Quantity = DefaultQuantity
		p.Defaulted = append(p.Defaulted, "quantity")
	}
	if !e.PriceLimit.Found {
		p.PriceLimit = DefaultPriceLimit
		p.Defaulted = append(p.Defaulted, "price_limit")
	}
	return p
}

// capitalize upper-cases the first letter and leaves the rest as spoken
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// words splits a sentence the way it is revealed
func words(sentence string) []string {
	return strings.Fields(sentence)
}
