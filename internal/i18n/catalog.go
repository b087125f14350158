// Package i18n loads the embedded status-text catalogs and registers them
// with golang.org/x/text/message. Message keys are the English texts, so an
// unregistered locale still prints readable English.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale the message keys are written in.
const BaseLocale = "en"

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog maps locale → key → text.
type Catalog map[string]map[string]string

// LoadFS reads every locales/*.yaml file of fsys.
func LoadFS(fsys fs.FS) (Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	cat := Catalog{}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, want)
		}
		if _, dup := cat[locale]; dup {
			return nil, fmt.Errorf("catalog %s: locale %q defined twice", p, locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: no messages", p)
		}
		cat[locale] = file.Messages
	}
	if _, ok := cat[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return cat, nil
}

// Locales returns the sorted locale identifiers.
func (c Catalog) Locales() []string {
	out := make([]string, 0, len(c))
	for l := range c {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Register installs every message into the x/text default catalog.
func (c Catalog) Register() error {
	for _, locale := range c.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		for key, text := range c[locale] {
			if err := message.SetString(tag, key, text); err != nil {
				return fmt.Errorf("register %s/%q: %w", locale, key, err)
			}
		}
	}
	return nil
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register loads the embedded catalogs and registers them once per process.
func Register() error {
	registerOnce.Do(func() {
		cat, err := LoadFS(localesFS)
		if err != nil {
			registerErr = err
			return
		}
		registerErr = cat.Register()
	})
	return registerErr
}

// Printer returns a printer for locale, falling back to BaseLocale when the
// tag does not parse.
func Printer(locale string) *message.Printer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse(BaseLocale)
	}
	return message.NewPrinter(tag)
}
