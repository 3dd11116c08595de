// Package i18n localizes user-facing messages. French is the default and
// the only language shipped with the binary; extra locale files can be
// loaded at startup.
package i18n

import (
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init builds the bundle with the built-in French catalog. Safe to call more than once.
func Init() {
	mu.Lock()
	defer mu.Unlock()
	if bundle != nil {
		return
	}
	b := goi18n.NewBundle(language.French)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	_ = b.AddMessages(language.French, frenchCatalog...)
	bundle = b
}

// Load adds a locale file (e.g. active.en.json) to the bundle.
func Load(path string) error {
	Init()
	mu.Lock()
	defer mu.Unlock()
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T localizes messageID for the given Accept-Language values, falling back
// to French and finally to the message ID itself.
func T(messageID string, data map[string]interface{}, langs ...string) string {
	Init()
	mu.RLock()
	defer mu.RUnlock()

	loc := goi18n.NewLocalizer(bundle, append(langs, language.French.String())...)
	// A message missing from the requested locale comes back in French
	// together with a MessageNotFoundErr, so only an empty result is a miss.
	msg, _ := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if msg == "" {
		return messageID
	}
	return msg
}
