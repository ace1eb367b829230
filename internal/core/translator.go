package core

import (
	"fmt"
	"strings"
)

// Translator turns a message key into display text for one language.
// params replace %name% placeholders; args fill printf verbs.
type Translator interface {
	Trans(key string, params map[string]string, domain string, args ...any) string
}

// FillPlaceholders replaces every %name% placeholder in s.
func FillPlaceholders(s string, params map[string]string) string {
	if len(params) == 0 {
		return s
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

type passthroughTranslator struct{}

func (passthroughTranslator) Trans(key string, params map[string]string, _ string, args ...any) string {
	s := FillPlaceholders(key, params)
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	return s
}

// Passthrough returns a Translator that leaves keys untranslated.
func Passthrough() Translator {
	return passthroughTranslator{}
}
