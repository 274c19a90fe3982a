package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/supra/catalog"
	"github.com/tailored-agentic-units/supra/core/menu"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sakhliJSON = `{"id": "r1", "name": "Sakhli", "cuisine": "georgian", "dishes": [
	{"name": "Khinkali", "price": 12.5},
	{"name": "Lobio", "price": 8}
]}`

const listJSON = `[
	{"id": "r2", "name": "Tbilisi Grill", "dishes": [{"name": "Mtsvadi", "price": 18}]},
	{"id": "r3", "name": "Supra House", "dishes": []}
]`

const batumiYAML = `id: r4
name: Batumi
dishes:
  - name: Adjaruli Khachapuri
    price: 14
    tags: [cheese, bread]
`

func TestNewProvider_Disabled(t *testing.T) {
	if p := catalog.NewProvider(&catalog.Config{}); p != nil {
		t.Errorf("NewProvider with empty path = %v, want nil", p)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.Merge(&catalog.Config{Path: "menus"})
	if cfg.Path != "menus" {
		t.Errorf("Path = %q, want menus", cfg.Path)
	}
	cfg.Merge(&catalog.Config{})
	if cfg.Path != "menus" {
		t.Errorf("empty merge overwrote Path: %q", cfg.Path)
	}
}

func TestFileProvider_SingleFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "sakhli.json", sakhliJSON)

	rs, err := catalog.NewFileProvider(filepath.Join(root, "sakhli.json")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rs) != 1 || rs[0].Name != "Sakhli" || len(rs[0].Dishes) != 2 {
		t.Fatalf("Load() = %+v", rs)
	}
	if rs[0].Dishes[0].Price != 12.5 {
		t.Errorf("price = %v, want 12.5", rs[0].Dishes[0].Price)
	}
}

func TestFileProvider_Directory(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a/sakhli.json", sakhliJSON)
	writeTestFile(t, root, "b/list.json", listJSON)
	writeTestFile(t, root, "c/batumi.yaml", batumiYAML)
	writeTestFile(t, root, "notes.txt", "ignored")
	writeTestFile(t, root, ".hidden/secret.json", sakhliJSON)

	rs, err := catalog.NewProvider(&catalog.Config{Path: root}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"Sakhli", "Tbilisi Grill", "Supra House", "Batumi"}
	if len(rs) != len(want) {
		t.Fatalf("Load() returned %d restaurants, want %d", len(rs), len(want))
	}
	for i, r := range rs {
		if r.Name != want[i] {
			t.Errorf("Load()[%d] = %q, want %q", i, r.Name, want[i])
		}
	}
	if tags := rs[3].Dishes[0].Tags; len(tags) != 2 || tags[0] != "cheese" {
		t.Errorf("yaml tags = %v", tags)
	}
}

func TestFileProvider_Errors(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "broken.json", "{not json")

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "missing", path: filepath.Join(root, "nope"), want: catalog.ErrNotFound},
		{name: "malformed", path: filepath.Join(root, "broken.json"), want: catalog.ErrLoadFailed},
		{name: "malformed in directory", path: root, want: catalog.ErrLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewFileProvider(tt.path).Load(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStatic_ReturnsCopies(t *testing.T) {
	p := catalog.Static(menu.Restaurant{ID: "r1", Name: "Sakhli", Dishes: []menu.Dish{{Name: "Khinkali", Price: 12}}})

	first, _ := p.Load(context.Background())
	first[0].Dishes[0].Name = "changed"

	second, _ := p.Load(context.Background())
	if second[0].Dishes[0].Name != "Khinkali" {
		t.Errorf("mutation leaked into provider: %q", second[0].Dishes[0].Name)
	}
}

func TestItems(t *testing.T) {
	items := catalog.Items([]menu.Restaurant{
		{ID: "r1", Name: "Sakhli", Dishes: []menu.Dish{{Name: "Khinkali", Price: 12}, {Name: "Lobio", Price: 8}}},
		{ID: "r2", Name: "Grill", Dishes: []menu.Dish{{Name: "Mtsvadi", Price: 18}}},
	})
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[2].Key() != (menu.Key{Restaurant: "Grill", Item: "Mtsvadi"}) || items[2].Status != menu.StatusNew {
		t.Errorf("unexpected item %+v", items[2])
	}
}
