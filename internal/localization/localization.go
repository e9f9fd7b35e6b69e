// Package localization loads translation strings from JSON files and resolves
// them per language, falling back to English.
package localization

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// DefaultLanguage is used when a request names no supported language.
const DefaultLanguage = "en"

// Localizer holds one key/value map per language. It is read-only after loading.
type Localizer struct {
	catalogs map[string]map[string]string
}

// NewLocalizer loads every <lang>.json file of dir.
func NewLocalizer(dir string) (*Localizer, error) {
	return Load(os.DirFS(dir))
}

// Load reads the catalogs at the root of fsys.
func Load(fsys fs.FS) (*Localizer, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}

	l := &Localizer{catalogs: make(map[string]map[string]string, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}
		catalog := map[string]string{}
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}
		l.catalogs[strings.ToLower(strings.TrimSuffix(path.Base(name), ".json"))] = catalog
	}
	return l, nil
}

// GetString returns the string for key in lang, then in DefaultLanguage, then key itself.
func (l *Localizer) GetString(lang, key string) string {
	for _, candidate := range []string{lang, DefaultLanguage} {
		if value, ok := l.catalogs[candidate][key]; ok {
			return value
		}
	}
	return key
}

// Format looks up key and formats it with args.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Has reports whether translations for lang were loaded.
func (l *Localizer) Has(lang string) bool {
	_, ok := l.catalogs[lang]
	return ok
}

// Match picks the first loaded language of an Accept-Language header,
// ignoring quality weights and region subtags.
func (l *Localizer) Match(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if tag != "" && l.Has(tag) {
			return tag
		}
	}
	return DefaultLanguage
}
