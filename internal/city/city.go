// Package city maps user-supplied city names to the listing site's URL slugs.
package city

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidCity is matched by every *InvalidCityError via errors.Is.
var ErrInvalidCity = errors.New("invalid city name")

// InvalidCityError reports a city that matches neither a native-script name
// nor a known slug.
type InvalidCityError struct {
	Input string
}

func (e *InvalidCityError) Error() string {
	return fmt.Sprintf("invalid city name: %s", e.Input)
}

// Is makes errors.Is(err, ErrInvalidCity) succeed.
func (e *InvalidCityError) Is(target error) bool {
	return target == ErrInvalidCity
}

// Mapping pairs a Persian city name with its slug.
type Mapping struct {
	Native string `json:"native" yaml:"native"`
	Slug   string `json:"slug" yaml:"slug"`
}

// mappings is the fixed city table. Slugs are unique.
var mappings = []Mapping{
	{"تبریز", "tabriz"},
	{"ارومیه", "urmia"},
	{"اردبیل", "ardabil"},
	{"اصفهان", "isfahan"},
	{"کرج", "karaj"},
	{"ایلام", "ilam"},
	{"بوشهر", "bushehr"},
	{"تهران", "tehran"},
	{"شهرکرد", "shahrekord"},
	{"بیرجند", "birjand"},
	{"مشهد", "mashhad"},
	{"بجنورد", "bojnurd"},
	{"خوزستان", "ahvaz"},
	{"زنجان", "zanjan"},
	{"سمنان", "semnan"},
	{"زاهدان", "zahedan"},
	{"شیراز", "shiraz"},
	{"قزوین", "qazvin"},
	{"قم", "qom"},
	{"سنندج", "sanandaj"},
	{"کرمان", "kerman"},
	{"کرمانشاه", "kermanshah"},
	{"یاسوج", "yasuj"},
	{"گرگان", "gorgan"},
	{"رشت", "rasht"},
	{"خرم آباد", "khorramabad"},
	{"ساری", "sari"},
	{"اراک", "arak"},
	{"بندر عباس", "bandar-abas"},
	{"همدان", "hamedan"},
	{"یزد", "yazd"},
}

var (
	byNative = make(map[string]string, len(mappings))
	bySlug   = make(map[string]string, len(mappings))
)

func init() {
	for _, m := range mappings {
		if _, dup := bySlug[m.Slug]; dup {
			panic("city: duplicate slug " + m.Slug)
		}
		byNative[m.Native] = m.Slug
		bySlug[m.Slug] = m.Native
	}
}

// Normalize returns the slug for a native-script city name or for a slug
// written in any case with spaces instead of hyphens. Anything else yields an
// *InvalidCityError; there is no fuzzy matching.
func Normalize(name string) (string, error) {
	if slug, ok := byNative[name]; ok {
		return slug, nil
	}

	candidate := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	if _, ok := bySlug[candidate]; ok {
		return candidate, nil
	}

	return "", &InvalidCityError{Input: name}
}

// Lookup reports whether name normalizes to a known slug.
func Lookup(name string) (string, bool) {
	slug, err := Normalize(name)
	return slug, err == nil
}

// NativeNames returns the Persian city names sorted, as shown in a city picker.
func NativeNames() []string {
	names := make([]string, 0, len(mappings))
	for _, m := range mappings {
		names = append(names, m.Native)
	}
	sort.Strings(names)
	return names
}

// Slugs returns every known slug sorted.
func Slugs() []string {
	slugs := make([]string, 0, len(mappings))
	for _, m := range mappings {
		slugs = append(slugs, m.Slug)
	}
	sort.Strings(slugs)
	return slugs
}

// All returns a copy of the mapping table ordered by native name.
func All() []Mapping {
	out := make([]Mapping, len(mappings))
	copy(out, mappings)
	sort.Slice(out, func(i, j int) bool { return out[i].Native < out[j].Native })
	return out
}
