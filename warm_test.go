package gotcat

import (
	"context"
	"errors"
	"testing"

	"github.com/ZaguanLabs/gotcat/cache"
)

func TestWarmLocales_RequiresBackend(t *testing.T) {
	tr, _ := newDom1Translator(t)

	err := tr.WarmLocales(context.Background(), []string{"es"}, 1)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *ConfigError, got %v", err)
	}
}

func TestWarmLocales_SharesReader(t *testing.T) {
	backend := cache.NewInMemoryCache(0)
	tr, reader := newDom1Translator(t, WithCache(backend))

	if err := tr.WarmLocales(context.Background(), []string{"es", "de"}, 0); err != nil {
		t.Fatal(err)
	}
	if reader.Reads() != 1 {
		t.Errorf("Expected one read (de has no catalog), got %d", reader.Reads())
	}

	// The warmed backend is fresh for the translator itself.
	tr.SetLanguage("es", "")
	if reader.Reads() != 1 {
		t.Errorf("Warmed locale should not be re-parsed, got %d reads", reader.Reads())
	}
}

func TestWarmLocales_InvalidLocale(t *testing.T) {
	tr, _ := newDom1Translator(t, WithCache(cache.NewInMemoryCache(0)))

	if err := tr.WarmLocales(context.Background(), []string{"es", "!!"}, 1); err == nil {
		t.Error("Expected an error for an invalid locale")
	}
}

func TestWarmLocales_Canceled(t *testing.T) {
	tr, reader := newDom1Translator(t, WithCache(cache.NewInMemoryCache(0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tr.WarmLocales(ctx, []string{"es"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if reader.Reads() != 0 {
		t.Errorf("Canceled warm-up should not load, got %d reads", reader.Reads())
	}
}
