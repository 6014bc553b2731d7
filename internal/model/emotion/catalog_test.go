package emotion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validEntry(label Label) Entry {
	return Entry{
		Label:     label,
		Keywords:  []string{string(label)},
		Responses: []string{"réponse"},
	}
}

func TestNewCatalogKeepsDeclarationOrder(t *testing.T) {
	catalog, err := NewCatalog([]Entry{validEntry("b"), validEntry("a"), validEntry("c")})
	if err != nil {
		t.Fatalf("NewCatalog err: %v", err)
	}

	labels := catalog.Labels()
	want := []Label{"b", "a", "c"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(labels))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("label %d: got %s want %s", i, labels[i], want[i])
		}
	}
}

func TestNewCatalogRejectsBrokenEntries(t *testing.T) {
	cases := map[string][]Entry{
		"empty catalog":     nil,
		"missing label":     {{Keywords: []string{"x"}, Responses: []string{"r"}}},
		"reserved label":    {validEntry(None)},
		"uppercase label":   {validEntry("Joie")},
		"no keywords":       {{Label: "joie", Responses: []string{"r"}}},
		"blank keyword":     {{Label: "joie", Keywords: []string{"  "}, Responses: []string{"r"}}},
		"uppercase keyword": {{Label: "joie", Keywords: []string{"Heureux"}, Responses: []string{"r"}}},
		"no responses":      {{Label: "joie", Keywords: []string{"heureux"}}},
		"blank response":    {{Label: "joie", Keywords: []string{"heureux"}, Responses: []string{""}}},
		"duplicate label":   {validEntry("joie"), validEntry("joie")},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewCatalog(entries); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	catalog, err := NewCatalog([]Entry{validEntry("joie")})
	if err != nil {
		t.Fatalf("NewCatalog err: %v", err)
	}

	entries := catalog.Entries()
	entries[0].Responses[0] = "modifié"

	entry, ok := catalog.Lookup("joie")
	if !ok {
		t.Fatal("expected joie entry")
	}
	if entry.Responses[0] != "réponse" {
		t.Fatalf("catalog mutated through Entries: %q", entry.Responses[0])
	}
	if _, ok := catalog.Lookup("colère"); ok {
		t.Fatal("unexpected entry for unknown label")
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("Default err: %v", err)
	}

	labels := catalog.Labels()
	if len(labels) < 2 || labels[0] != "tristesse" || labels[1] != "anxiété" {
		t.Fatalf("unexpected catalog order: %v", labels)
	}

	sadness, _ := catalog.Lookup("tristesse")
	if len(sadness.Responses) != 3 {
		t.Fatalf("expected 3 sadness responses, got %d", len(sadness.Responses))
	}
	if len(sadness.Exercises) == 0 || len(sadness.Quotes) == 0 {
		t.Fatal("expected sadness exercises and quotes")
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := []byte(`emotions:
  - label: peur
    keywords: ["peur"]
    responses: ["Je suis là."]
`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", catalog.Len())
	}
}

func TestLoadInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := []byte(`emotions:
  - label: peur
    keywords: ["peur"]
`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := Parse([]byte("emotions: [")); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for malformed yaml, got %v", err)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	doc := []byte(`emotions:
  - label: peur
    keywords: ["peur"]
    responses: ["Je suis là."]
    exercices: ["Respire lentement."]
`)
	if _, err := Parse(doc); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown key, got %v", err)
	}
}

func TestDefaultCatalogSadnessOutranksJoy(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("Default err: %v", err)
	}

	sadness, _ := catalog.Lookup("tristesse")
	found := map[string]bool{}
	for _, keyword := range sadness.Keywords {
		found[keyword] = true
	}
	for _, word := range []string{"malheureux", "malheureuse"} {
		if !found[word] {
			t.Fatalf("expected %q among sadness keywords", word)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
