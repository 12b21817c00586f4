package message

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/pkg/apperrors"
)

func TestNewResolverValidatesDefaultCatalog(t *testing.T) {
	resolver, err := NewResolver(DefaultCatalog)
	require.NoError(t, err)
	assert.NotNil(t, resolver)
}

func TestNewResolverRejectsMissingFallbackSet(t *testing.T) {
	catalog := Catalog{
		"hi": DefaultCatalog["hi"],
	}

	_, err := NewResolver(catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestNewResolverRejectsIncompleteLanguage(t *testing.T) {
	catalog := Catalog{
		"en": DefaultCatalog["en"],
		"xx": {
			KeyReminder: "only one template",
		},
	}

	_, err := NewResolver(catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestResolveKnownLanguage(t *testing.T) {
	resolver, err := NewResolver(DefaultCatalog)
	require.NoError(t, err)

	tmpl, err := resolver.Resolve("hi", KeyReminder)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog["hi"][KeyReminder], tmpl)
}

func TestResolveUnknownLanguageFallsBackToEnglish(t *testing.T) {
	resolver, err := NewResolver(DefaultCatalog)
	require.NoError(t, err)

	tmpl, err := resolver.Resolve("xx", KeyReminder)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog["en"][KeyReminder], tmpl)
}

func TestResolveUnknownKeyFails(t *testing.T) {
	resolver, err := NewResolver(DefaultCatalog)
	require.NoError(t, err)

	_, err = resolver.Resolve("en", Key("no_such_template"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestRenderSubstitutesAllPlaceholders(t *testing.T) {
	tmpl := "Hello {name}, your EMI of Rs {amount} is due on {due_date}."

	got := Render(tmpl, "Ravi", 2500, "August 25, 2026")

	assert.Equal(t, "Hello Ravi, your EMI of Rs 2500 is due on August 25, 2026.", got)
	assert.NotContains(t, got, "{")
}

func TestRenderEveryDefaultTemplate(t *testing.T) {
	for lang, templates := range DefaultCatalog {
		for key, tmpl := range templates {
			got := Render(tmpl, "Ravi", 2500, "August 25, 2026")
			assert.NotContains(t, got, "{name}", "language %s key %s", lang, key)
			assert.NotContains(t, got, "{amount}", "language %s key %s", lang, key)
			assert.NotContains(t, got, "{due_date}", "language %s key %s", lang, key)
		}
	}
}
