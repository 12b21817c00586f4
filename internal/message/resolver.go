// Package message resolves and renders localized notification templates.
//
// Resolution is a two-step lookup: exact language first, then the English
// fallback set. The fallback is silent and unconditional for unknown
// languages; a missing key for a language that does exist in the catalog is
// a configuration bug and surfaces as an error.
package message

import (
	"fmt"
	"strconv"
	"strings"

	"emi-genie/internal/pkg/apperrors"
)

type Key string

const (
	KeyReminder       Key = "reminder"
	KeyPreDueReminder Key = "pre_due_reminder"
	KeyLinkSent       Key = "link_sent"
	KeyRescheduled    Key = "rescheduled"
)

// FallbackLanguage is used for any language code not present in the catalog.
const FallbackLanguage = "en"

var requiredKeys = []Key{KeyReminder, KeyPreDueReminder, KeyLinkSent, KeyRescheduled}

type Resolver struct {
	catalog Catalog
}

// NewResolver validates the catalog up front so an incomplete template table
// fails at startup rather than on the first call in a rare language.
func NewResolver(catalog Catalog) (*Resolver, error) {
	if _, ok := catalog[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("%w: catalog has no %q fallback template set", apperrors.ErrConfiguration, FallbackLanguage)
	}
	for lang, templates := range catalog {
		for _, key := range requiredKeys {
			if _, ok := templates[key]; !ok {
				return nil, fmt.Errorf("%w: language %q is missing template %q", apperrors.ErrConfiguration, lang, key)
			}
		}
	}
	return &Resolver{catalog: catalog}, nil
}

// Resolve returns the template for (language, key). Unknown languages fall
// back to English; an unknown key is an error even for known languages.
func (r *Resolver) Resolve(language string, key Key) (string, error) {
	templates, ok := r.catalog[language]
	if !ok {
		templates = r.catalog[FallbackLanguage]
	}
	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("%w: no template %q for language %q", apperrors.ErrConfiguration, key, language)
	}
	return tmpl, nil
}

// Render substitutes the named placeholders into a resolved template.
func Render(tmpl, name string, amount int64, dueDate string) string {
	return strings.NewReplacer(
		"{name}", name,
		"{amount}", strconv.FormatInt(amount, 10),
		"{due_date}", dueDate,
	).Replace(tmpl)
}
