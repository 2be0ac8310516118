package city

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

// --- Normalize Tests ---

func TestNormalize_NativeNames(t *testing.T) {
	for _, m := range mappings {
		got, err := Normalize(m.Native)
		if err != nil {
			t.Errorf("Normalize(%q) error = %v", m.Native, err)
			continue
		}
		if got != m.Slug {
			t.Errorf("Normalize(%q) = %q, want %q", m.Native, got, m.Slug)
		}
	}
}

func TestNormalize_SlugsRoundTrip(t *testing.T) {
	for _, m := range mappings {
		for _, in := range []string{m.Slug, strings.ToUpper(m.Slug), strings.ReplaceAll(m.Slug, "-", " ")} {
			got, err := Normalize(in)
			if err != nil {
				t.Errorf("Normalize(%q) error = %v", in, err)
				continue
			}
			if got != m.Slug {
				t.Errorf("Normalize(%q) = %q, want %q", in, got, m.Slug)
			}
		}
	}
}

func TestNormalize_SpacedSlug(t *testing.T) {
	got, err := Normalize("Bandar Abas")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "bandar-abas" {
		t.Errorf("Normalize() = %q, want %q", got, "bandar-abas")
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []string{
		"Atlantis",
		"",
		"teh",
		"tehran ",
		"تهرا",
		"Khorram Abad",
		" تهران",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := Normalize(in)
			if err == nil {
				t.Fatalf("Normalize(%q) = %q, expected error", in, got)
			}
			if got != "" {
				t.Errorf("Normalize(%q) returned %q alongside error", in, got)
			}

			var invalid *InvalidCityError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidCityError, got %T", err)
			}
			if invalid.Input != in {
				t.Errorf("InvalidCityError.Input = %q, want %q", invalid.Input, in)
			}
			if !errors.Is(err, ErrInvalidCity) {
				t.Error("expected errors.Is(err, ErrInvalidCity)")
			}
		})
	}
}

func TestInvalidCityError_Message(t *testing.T) {
	_, err := Normalize("Atlantis")
	if err == nil || err.Error() != "invalid city name: Atlantis" {
		t.Errorf("unexpected error message: %v", err)
	}
}

// --- Table Tests ---

func TestMappings_UniqueSlugs(t *testing.T) {
	seen := make(map[string]string)
	for _, m := range mappings {
		if prev, ok := seen[m.Slug]; ok {
			t.Errorf("slug %q used by both %q and %q", m.Slug, prev, m.Native)
		}
		seen[m.Slug] = m.Native
	}
	if len(seen) != 31 {
		t.Errorf("expected 31 cities, got %d", len(seen))
	}
}

func TestNativeNames_Sorted(t *testing.T) {
	names := NativeNames()
	if len(names) != len(mappings) {
		t.Fatalf("NativeNames() returned %d names, want %d", len(names), len(mappings))
	}
	if !sort.StringsAreSorted(names) {
		t.Error("NativeNames() should be sorted")
	}
}

func TestSlugs_Sorted(t *testing.T) {
	slugs := Slugs()
	if !sort.StringsAreSorted(slugs) {
		t.Error("Slugs() should be sorted")
	}
	if slugs[0] != "ahvaz" {
		t.Errorf("first slug = %q, want %q", slugs[0], "ahvaz")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Slug = "mutated"

	for _, m := range mappings {
		if m.Slug == "mutated" {
			t.Fatal("All() must not expose the internal table")
		}
	}
}

func TestLookup(t *testing.T) {
	if slug, ok := Lookup("تهران"); !ok || slug != "tehran" {
		t.Errorf("Lookup(تهران) = %q, %v", slug, ok)
	}
	if _, ok := Lookup("Atlantis"); ok {
		t.Error("Lookup(Atlantis) should fail")
	}
}
