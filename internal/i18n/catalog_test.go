package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/robalobadob/memorygrid/internal/game"
)

func TestEmbeddedCatalogsCoverEngineTexts(t *testing.T) {
	cat, err := LoadFS(localesFS)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	keys := []string{game.MsgWatch, game.MsgYourTurn, game.MsgRoundWon, game.MsgGameOver}
	for _, locale := range cat.Locales() {
		for _, k := range keys {
			if _, ok := cat[locale][k]; !ok {
				t.Errorf("locale %s misses %q", locale, k)
			}
		}
	}
}

func TestPrinterTranslates(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tests := []struct {
		locale string
		want   string
	}{
		{"fr", "Game Over ! Score final : 40"},
		{"fr-CA", "Game Over ! Score final : 40"},
		{"en", "Game over! Final score: 40"},
		{"not a tag", "Game over! Final score: 40"},
	}
	for _, tt := range tests {
		if got := Printer(tt.locale).Sprintf(game.MsgGameOver, 40); got != tt.want {
			t.Errorf("Printer(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
	if got := Printer("fr").Sprintf(game.MsgWatch); got != "Mémorisez la séquence..." {
		t.Errorf("fr watch text = %q", got)
	}
}

func TestLoadFSRejectsBadCatalogs(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"empty": {},
		"locale mismatch": {
			"locales/en.yaml": {Data: []byte("locale: fr\nmessages:\n  a: b\n")},
		},
		"no base locale": {
			"locales/fr.yaml": {Data: []byte("locale: fr\nmessages:\n  a: b\n")},
		},
		"no messages": {
			"locales/en.yaml": {Data: []byte("locale: en\n")},
		},
		"bad yaml": {
			"locales/en.yaml": {Data: []byte("locale: [\n")},
		},
	}
	for name, fsys := range tests {
		if _, err := LoadFS(fsys); err == nil {
			t.Errorf("%s: LoadFS succeeded", name)
		}
	}
}
