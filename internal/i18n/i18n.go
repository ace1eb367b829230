// Package i18n provides the admin translator: a small in-memory catalog per
// language, Accept-Language matching and printf formatting through
// golang.org/x/text.
package i18n

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/brandadmin/internal/core"
)

// Language is a supported interface language.
type Language struct {
	ID  int
	Tag language.Tag
}

// Supported languages, in preference order for matching.
var (
	English = Language{ID: 1, Tag: language.English}
	French  = Language{ID: 2, Tag: language.French}
)

type entryKey struct {
	domain string
	key    string
}

// Catalog holds translations for every supported language.
type Catalog struct {
	mu        sync.RWMutex
	languages []Language
	fallback  Language
	matcher   language.Matcher
	entries   map[language.Tag]map[entryKey]string
}

// NewCatalog returns a catalog for the given languages. defaultTag selects the
// fallback and must be one of them.
func NewCatalog(defaultTag string, langs ...Language) (*Catalog, error) {
	if len(langs) == 0 {
		langs = []Language{English, French}
	}
	def, err := language.Parse(defaultTag)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultTag, err)
	}

	c := &Catalog{entries: make(map[language.Tag]map[entryKey]string)}
	for _, l := range langs {
		if l.Tag == def {
			c.fallback = l
			c.languages = append(c.languages, l)
		}
	}
	if len(c.languages) == 0 {
		return nil, fmt.Errorf("default language %q is not supported", defaultTag)
	}
	for _, l := range langs {
		if l.Tag != def {
			c.languages = append(c.languages, l)
		}
	}

	// The matcher's first tag is its fallback.
	tags := make([]language.Tag, len(c.languages))
	for i, l := range c.languages {
		tags[i] = l.Tag
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

// Add registers a translation.
func (c *Catalog) Add(tag language.Tag, domain, key, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.entries[tag]
	if !ok {
		m = make(map[entryKey]string)
		c.entries[tag] = m
	}
	m[entryKey{domain: domain, key: key}] = translation
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return c.fallback
	}
	_, index := language.MatchStrings(c.matcher, acceptLanguage)
	if index < 0 || index >= len(c.languages) {
		return c.fallback
	}
	return c.languages[index]
}

// FromRequest matches the request's Accept-Language header.
func (c *Catalog) FromRequest(r *http.Request) Language {
	return c.Match(r.Header.Get("Accept-Language"))
}

// ByID returns the language with the given id, or the fallback.
func (c *Catalog) ByID(id int) Language {
	for _, l := range c.languages {
		if l.ID == id {
			return l
		}
	}
	return c.fallback
}

// Translator returns a core.Translator bound to lang.
func (c *Catalog) Translator(lang Language) core.Translator {
	return &translator{
		catalog: c,
		tag:     lang.Tag,
		printer: message.NewPrinter(lang.Tag),
	}
}

func (c *Catalog) lookup(tag language.Tag, domain, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.entries[tag][entryKey{domain: domain, key: key}]
	return s, ok
}

type translator struct {
	catalog *Catalog
	tag     language.Tag
	printer *message.Printer
}

func (t *translator) Trans(key string, params map[string]string, domain string, args ...any) string {
	s, ok := t.catalog.lookup(t.tag, domain, key)
	if !ok {
		s = key
	}
	s = core.FillPlaceholders(s, params)
	if len(args) > 0 {
		s = t.printer.Sprintf(s, args...)
	}
	return s
}
