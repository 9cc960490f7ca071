// Package catalog loads the embedded locale message catalogs.
//
// Catalogs live at locales/<locale>/<namespace>.yaml. Keys are printf
// formats shared across namespaces of one locale, so a key may appear in
// exactly one namespace, and keys under "core." belong to the core
// namespace. Every locale falls back to BaseLocale for keys it lacks.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog is checked against.
const BaseLocale = "en-US"

const coreNamespace = "core"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustRegister(LoadEmbedded())

// Default returns the embedded bundle, registered with x/text/message.
func Default() *Bundle {
	return defaultBundle
}

type document struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type entry struct {
	namespace string
	text      string
}

// Bundle holds every locale's messages keyed by message key.
type Bundle struct {
	locales map[string]map[string]entry
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads and validates every catalog under locales/ in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	files, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(files)

	b := &Bundle{locales: make(map[string]map[string]entry)}
	for _, name := range files {
		doc, err := decode(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := b.add(name, doc); err != nil {
			return nil, err
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := b.checkPlaceholders(); err != nil {
		return nil, err
	}
	return b, nil
}

func decode(fsys fs.FS, name string) (document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return document{}, fmt.Errorf("read catalog %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return doc, nil
}

func (b *Bundle) add(name string, doc document) error {
	wantLocale := path.Base(path.Dir(name))
	wantNamespace := strings.TrimSuffix(path.Base(name), path.Ext(name))

	locale := strings.TrimSpace(doc.Locale)
	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", name)
	case locale != wantLocale:
		return fmt.Errorf("catalog %s: locale %q does not match directory %q", name, locale, wantLocale)
	case strings.TrimSpace(doc.Namespace) != wantNamespace:
		return fmt.Errorf("catalog %s: namespace %q does not match file name %q", name, doc.Namespace, wantNamespace)
	case len(doc.Messages) == 0:
		return fmt.Errorf("catalog %s: messages are required", name)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: invalid locale %q: %w", name, locale, err)
	}

	messages := b.locales[locale]
	if messages == nil {
		messages = make(map[string]entry)
		b.locales[locale] = messages
	}
	for _, e := range messages {
		if e.namespace == wantNamespace {
			return fmt.Errorf("catalog %s: namespace %q loaded twice for %s", name, wantNamespace, locale)
		}
	}
	for rawKey, text := range doc.Messages {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", name)
		}
		if strings.HasPrefix(key, coreNamespace+".") && wantNamespace != coreNamespace {
			return fmt.Errorf("catalog %s: key %q belongs in the core namespace", name, key)
		}
		if prev, ok := messages[key]; ok {
			return fmt.Errorf("catalog %s: key %q already defined in namespace %q of %s", name, key, prev.namespace, locale)
		}
		messages[key] = entry{namespace: wantNamespace, text: text}
	}
	return nil
}

var verbPattern = regexp.MustCompile(`%[-+# 0]*[0-9]*(?:\.[0-9]+)?[a-zA-Z]`)

func verbs(text string) []string {
	found := verbPattern.FindAllString(strings.ReplaceAll(text, "%%", ""), -1)
	slices.Sort(found)
	return found
}

// checkPlaceholders rejects translations whose format verbs differ from the
// base locale, since callers pass the same arguments to every locale.
func (b *Bundle) checkPlaceholders() error {
	base := b.locales[BaseLocale]
	for _, locale := range b.Locales() {
		if locale == BaseLocale {
			continue
		}
		for key, e := range b.locales[locale] {
			ref, ok := base[key]
			if !ok {
				return fmt.Errorf("locale %s defines %q which is missing from %s", locale, key, BaseLocale)
			}
			if !slices.Equal(verbs(ref.text), verbs(e.text)) {
				return fmt.Errorf("locale %s key %q: format verbs %v differ from %s %v", locale, key, verbs(e.text), BaseLocale, verbs(ref.text))
			}
		}
	}
	return nil
}

// Builder returns an x/text catalog holding every locale, with missing keys
// filled from the base locale. A locale with a region is also registered
// under its bare language so "sr" requests resolve.
func (b *Bundle) Builder() (*xcatalog.Builder, error) {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(language.MustParse(BaseLocale)))
	if b == nil {
		return builder, nil
	}
	base := b.locales[BaseLocale]
	for _, locale := range b.Locales() {
		tags, err := registrationTags(locale)
		if err != nil {
			return nil, err
		}
		messages := b.locales[locale]
		for key, ref := range base {
			text := ref.text
			if e, ok := messages[key]; ok {
				text = e.text
			}
			for _, tag := range tags {
				if err := builder.SetString(tag, key, text); err != nil {
					return nil, fmt.Errorf("register %s %q: %w", tag, key, err)
				}
			}
		}
	}
	return builder, nil
}

func registrationTags(locale string) ([]language.Tag, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return []language.Tag{tag}, nil
	}
	bare, err := language.Parse(base.String())
	if err != nil || bare == tag {
		return []language.Tag{tag}, nil
	}
	return []language.Tag{tag, bare}, nil
}

// Register installs the bundle as the x/text/message default catalog.
func (b *Bundle) Register() error {
	builder, err := b.Builder()
	if err != nil {
		return err
	}
	message.DefaultCatalog = builder
	return nil
}

// HasLocale reports whether the locale has at least one catalog.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// LocaleMessages returns a copy of one locale's own messages, without
// base-locale fallback.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	out := make(map[string]string)
	if b == nil {
		return out
	}
	for key, e := range b.locales[strings.TrimSpace(locale)] {
		out[key] = e.text
	}
	return out
}

// Message returns one message, falling back to the base locale.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if b == nil || key == "" {
		return "", false
	}
	if e, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return e.text, true
	}
	e, ok := b.locales[BaseLocale][key]
	return e.text, ok
}

func mustRegister(b *Bundle, err error) *Bundle {
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}
