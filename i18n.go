// i18n.go - User-facing message localization

package main

import (
	"os"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// msgPrinter renders all user-facing console text. It defaults to English and
// is re-bound to the environment locale by initI18n.
var msgPrinter = message.NewPrinter(language.English)

func init() {
	registerMessages()
}

// registerMessages installs the plural rules and the translated catalogs.
// English strings double as catalog keys, so unknown locales fall back to
// readable text.
func registerMessages() {
	message.Set(language.English, "%d verses",
		plural.Selectf(1, "%d",
			plural.One, "%d verse",
			plural.Other, "%d verses"))
	message.Set(language.Spanish, "%d verses",
		plural.Selectf(1, "%d",
			plural.One, "%d estrofa",
			plural.Other, "%d estrofas"))

	for key, text := range map[string]string{
		" Playing introduction":           " Tocando la introducción",
		" Playing verse %d\n":             " Tocando la estrofa %d\n",
		" Playing verse %d, last verse\n": " Tocando la estrofa %d, última estrofa\n",
		" minor":                          " menor",
		"Fine - elapsed time %s\n\n":      "Fine - tiempo transcurrido %s\n\n",
		"\nElapsed time %s\n\n":           "\nTiempo transcurrido %s\n\n",
		"Hymn %s was not found.\n\n":      "No se encontró el himno %s.\n\n",
		"Hymn %s was not found in the staging folder.\n\n": "No se encontró el himno %s en la carpeta de preparación.\n\n",
		"No device connected. Connect a device.":           "Ningún dispositivo conectado. Conecte un dispositivo.",
	} {
		message.SetString(language.Spanish, key, text)
	}
}

// initI18n binds the message printer to the locale taken from the
// environment, mirroring the usual gettext lookup order.
func initI18n() {
	msgPrinter = message.NewPrinter(envLocale())
}

func envLocale() language.Tag {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return language.English
}

// formatVerses renders a verse count with its pluralized noun.
func formatVerses(count int) string {
	return msgPrinter.Sprintf("%d verses", count)
}
