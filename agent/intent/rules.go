package intent

import (
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

var (
	namePattern     = regexp.MustCompile(`(?i)(?:product|продукт)\s*[:\-]?\s*([^,]+)`)
	pricePattern    = regexp.MustCompile(`(?i)(?:price|цен[ауы]?)\s*[:\-]?\s*([0-9]+(?:[.,][0-9]+)?)`)
	categoryPattern = regexp.MustCompile(`(?i)(?:category|категори[яи])\s*[:\-]?\s*([^,]+)`)
	percentPattern  = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*%`)
	idPattern       = regexp.MustCompile(`\bid\s*(\d+)`)
)

// Rule pairs a predicate with an extractor. A rule matches when at least one
// keyword is a substring of the lowered text and, if Pattern is set, the
// pattern matches the lowered text too.
type Rule struct {
	Name     contractx.ActionKind
	Keywords []string
	Pattern  *regexp.Regexp
	Extract  func(d Defaults, original, lowered string) contractx.Decision
}

func (r Rule) Matches(lowered string) bool {
	if len(r.Keywords) > 0 {
		found := false
		for _, kw := range r.Keywords {
			if strings.Contains(lowered, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.Pattern != nil {
		return r.Pattern.MatchString(lowered)
	}
	return true
}

// DefaultRules returns the rules in priority order. Statistics comes first and
// the bare id lookup last, so "discount id 5 by 20%" is a discount.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     contractx.ActionGetStatistics,
			Keywords: []string{"average", "statistic", "средн", "статист"},
			Extract: func(Defaults, string, string) contractx.Decision {
				return contractx.GetStatistics()
			},
		},
		{
			Name:     contractx.ActionAddProduct,
			Keywords: []string{"add", "добав"},
			Extract:  extractAdd,
		},
		{
			Name:     contractx.ActionDiscount,
			Keywords: []string{"discount", "скидк"},
			Extract:  extractDiscount,
		},
		{
			Name:     contractx.ActionListProducts,
			Keywords: []string{"show", "list", "product", "покаж", "продукт"},
			Extract: func(_ Defaults, original, _ string) contractx.Decision {
				category, _ := captureText(categoryPattern, original)
				return contractx.ListProducts(category)
			},
		},
		{
			Name:    contractx.ActionGetProduct,
			Pattern: idPattern,
			Extract: func(_ Defaults, _, lowered string) contractx.Decision {
				return contractx.GetProduct(captureID(lowered))
			},
		},
	}
}

func extractAdd(d Defaults, original, _ string) contractx.Decision {
	name, ok := captureText(namePattern, original)
	if !ok {
		name = d.ProductName
	}
	category, ok := captureText(categoryPattern, original)
	if !ok {
		category = d.Category
	}
	price := 0.0
	if raw, ok := capture(pricePattern, original); ok {
		price = parseNumber(raw)
	}
	return contractx.AddProduct(contractx.AddParams{
		Name:     name,
		Price:    price,
		Category: category,
		InStock:  true,
	})
}

func extractDiscount(_ Defaults, _, lowered string) contractx.Decision {
	percent := 0.0
	if raw, ok := capture(percentPattern, lowered); ok {
		percent = parseNumber(raw)
	}
	return contractx.Discount(percent, captureID(lowered))
}

func capture(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// captureText returns the trimmed capture; a blank capture counts as absent.
func captureText(re *regexp.Regexp, text string) (string, bool) {
	raw, ok := capture(re, text)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func captureID(lowered string) *int {
	raw, ok := capture(idPattern, lowered)
	if !ok {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &id
}

// parseNumber accepts "," as decimal separator. Malformed input yields 0.
func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}
