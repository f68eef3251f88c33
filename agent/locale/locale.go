// Package locale loads the embedded response catalogs.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

var ErrUnknownLocale = errors.New("unknown locale")

//go:embed messages/*.yaml
var messagesFS embed.FS

// Messages holds every user-facing string for one locale. Fields containing
// verbs are fmt format strings.
type Messages struct {
	Currency           string `yaml:"currency"`
	DefaultProductName string `yaml:"default_product_name"`
	DefaultCategory    string `yaml:"default_category"`
	NoProducts         string `yaml:"no_products"`
	InStock            string `yaml:"in_stock"`
	OutOfStock         string `yaml:"out_of_stock"`
	ProductLine        string `yaml:"product_line"`
	Statistics         string `yaml:"statistics"`
	Added              string `yaml:"added"`
	Discount           string `yaml:"discount"`
	Processed          string `yaml:"processed"`
	UnknownAction      string `yaml:"unknown_action"`
	ProductIDRequired  string `yaml:"product_id_required"`
	ProductNotFound    string `yaml:"product_not_found"`
	CalculationFailed  string `yaml:"calculation_failed"`
}

// Load returns the catalog for name ("en", "ru"). Lookup is case-insensitive.
func Load(name string) (Messages, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultLocale
	}

	raw, err := messagesFS.ReadFile("messages/" + name + ".yaml")
	if err != nil {
		return Messages{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownLocale, name, strings.Join(Available(), ", "))
	}

	var m Messages
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Messages{}, fmt.Errorf("decode locale %s: %w", name, err)
	}
	if err := m.validate(); err != nil {
		return Messages{}, fmt.Errorf("locale %s: %w", name, err)
	}
	return m, nil
}

func MustLoad(name string) Messages {
	m, err := Load(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Available lists the embedded locale names in sorted order.
func Available() []string {
	entries, err := messagesFS.ReadDir("messages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (m Messages) validate() error {
	required := map[string]string{
		"no_products":         m.NoProducts,
		"product_line":        m.ProductLine,
		"statistics":          m.Statistics,
		"added":               m.Added,
		"discount":            m.Discount,
		"processed":           m.Processed,
		"unknown_action":      m.UnknownAction,
		"product_id_required": m.ProductIDRequired,
		"product_not_found":   m.ProductNotFound,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("missing message %q", key)
		}
	}
	return nil
}
