// Package i18n translates message keys through a golang.org/x/text catalog.
package i18n

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ErrMissingTranslation is returned when a key has no message for the
// resolved locale.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves a message key for a locale. Args are substituted with
// fmt verbs declared in the message.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Translations maps message keys to per-locale format strings.
type Translations map[string]map[string]string

// Catalog is a Translator backed by a catalog.Builder.
type Catalog struct {
	fallback language.Tag
	builder  *catalog.Builder

	mu      sync.RWMutex
	known   map[language.Tag]map[string]struct{}
	matcher language.Matcher
	tags    []language.Tag
}

var _ Translator = (*Catalog)(nil)

// NewCatalog builds a catalog from translations. Locales that do not match
// any loaded language resolve to fallback.
func NewCatalog(fallback string, translations Translations) (*Catalog, error) {
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: fallback locale %q: %w", fallback, err)
	}
	c := &Catalog{
		fallback: fallbackTag,
		builder:  catalog.NewBuilder(catalog.Fallback(fallbackTag)),
		known:    make(map[language.Tag]map[string]struct{}),
	}
	for key, perLocale := range translations {
		for locale, msg := range perLocale {
			if err := c.Set(locale, key, msg); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Set adds or replaces a message.
func (c *Catalog) Set(locale, key, msg string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("i18n: set %s/%s: %w", locale, key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known[tag] == nil {
		c.known[tag] = make(map[string]struct{})
	}
	c.known[tag][key] = struct{}{}
	c.matcher = nil
	return nil
}

// Translate formats key for locale. A missing key returns the key itself
// together with ErrMissingTranslation.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	tag := c.resolve(locale)

	c.mu.RLock()
	_, ok := c.known[tag][key]
	if !ok {
		if _, ok = c.known[c.fallback][key]; ok {
			tag = c.fallback
		}
	}
	c.mu.RUnlock()
	if !ok {
		return key, fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, tag)
	}

	printer := message.NewPrinter(tag, message.Catalog(c.builder))
	return printer.Sprintf(key, args...), nil
}

func (c *Catalog) resolve(locale string) language.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.matcher == nil {
		c.tags = []language.Tag{c.fallback}
		for tag := range c.known {
			if tag != c.fallback {
				c.tags = append(c.tags, tag)
			}
		}
		c.matcher = language.NewMatcher(c.tags)
	}

	requested, err := language.Parse(locale)
	if err != nil {
		return c.fallback
	}
	_, idx, confidence := c.matcher.Match(requested)
	if confidence == language.No || idx < 0 || idx >= len(c.tags) {
		return c.fallback
	}
	return c.tags[idx]
}
