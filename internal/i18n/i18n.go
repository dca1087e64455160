package i18n

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-age/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator wraps a go-i18n bundle with safe fallbacks. Both the CLI and
// the GUI render through it so user-facing strings stay in one place.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer

	// Languages lists the locale codes detected in the embedded files.
	Languages []string
}

// New loads the embedded locales and selects the given language.
// An empty or unknown language falls back to the default.
func New(lang string) *Translator {
	t := &Translator{
		bundle: goi18n.NewBundle(language.English),
	}
	t.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	t.loadLocales()
	t.SetLanguage(lang)
	return t
}

// loadLocales scans the embedded directory for active.<lang>.json files.
func (t *Translator) loadLocales() {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name)
			continue
		}

		if _, err := t.bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err)
			continue
		}

		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name)
	}
}

// SetLanguage switches the active locale.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = goi18n.NewLocalizer(t.bundle, lang)
}

// Msg translates a key. On failure it returns the key itself so the UI
// never shows an empty string.
func (t *Translator) Msg(key string) string {
	return t.MsgData(key, nil)
}

// MsgData translates a key with template data.
func (t *Translator) MsgData(key string, data map[string]interface{}) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err)
		return key
	}
	return msg
}

// MsgCount translates a pluralized key.
func (t *Translator) MsgCount(key string, count int) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]interface{}{"Count": count},
		PluralCount:  count,
	})
	if err != nil || msg == "" {
		return key
	}
	return msg
}
