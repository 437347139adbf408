package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/machine"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog", filepath.Join("testdata", "menu.yaml"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, want := range []string{"2 recipes loaded", "Hot Chocolate", "Americano", "Chocolate: 40"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogCommandErrors(t *testing.T) {
	if _, err := run(t, "catalog"); err == nil {
		t.Fatalf("expected argument error")
	}
	if _, err := run(t, "catalog", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := run(t, "--log-level", "chatty", "catalog", filepath.Join("testdata", "menu.yaml")); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestPrepareSeedsOnlyWithoutState(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{RecipesFile: filepath.Join("testdata", "menu.yaml")}
	st := store.New()

	svc := machine.New(st, nil, nil)
	if err := prepare(ctx, cfg, svc); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if svc.Recipes()[0].Recipe == nil || svc.Recipes()[0].Recipe.Name != "Hot Chocolate" {
		t.Fatalf("catalog not applied: %+v", svc.Recipes())
	}
	if _, err := svc.DeleteRecipe(ctx, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	again := machine.New(st, nil, nil)
	if err := prepare(ctx, cfg, again); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if again.Recipes()[0].Recipe != nil {
		t.Fatalf("saved state should win over the catalog")
	}
}

func TestOpenStoreAndPublisherDefaults(t *testing.T) {
	st, err := openStore(config.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	db, err := openStore(config.Config{StateDB: filepath.Join(t.TempDir(), "m.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = db.Close()
	pub, err := openPublisher(config.Config{}, nil)
	if err != nil || pub == nil {
		t.Fatalf("log publisher expected, err=%v", err)
	}
}
