// i18n_test.go - Tests for message localization

package main

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TestFormatVerses checks English pluralization.
func TestFormatVerses(t *testing.T) {
	if got := formatVerses(1); got != "1 verse" {
		t.Errorf(`expected "1 verse", got %q`, got)
	}
	if got := formatVerses(4); got != "4 verses" {
		t.Errorf(`expected "4 verses", got %q`, got)
	}
}

// TestFormatVerses_Spanish checks the Spanish catalog.
func TestFormatVerses_Spanish(t *testing.T) {
	old := msgPrinter
	msgPrinter = message.NewPrinter(language.Spanish)
	defer func() { msgPrinter = old }()

	if got := formatVerses(1); got != "1 estrofa" {
		t.Errorf(`expected "1 estrofa", got %q`, got)
	}
	if got := formatVerses(3); got != "3 estrofas" {
		t.Errorf(`expected "3 estrofas", got %q`, got)
	}
}

// TestEnvLocale checks locale resolution from the environment.
func TestEnvLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "es_MX.UTF-8")

	tag := envLocale()
	if base, _ := tag.Base(); base.String() != "es" {
		t.Errorf("expected Spanish base language, got %v", tag)
	}

	t.Setenv("LANG", "C")
	if got := envLocale(); got != language.English {
		t.Errorf("C locale should fall back to English, got %v", got)
	}
}
