package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Placeholders for card fields that could not be found.
const (
	NoTitle       = "No title"
	NoPrice       = "Price not specified"
	NoDescription = "No description"
)

// NoAdsFound is the text produced for a result page without ad cards.
const NoAdsFound = "No advertisements found matching your criteria."

// cardSelector matches ad card containers on the search page.
const cardSelector = `div[class*="post-card"]`

// AdCard is one advertisement as shown on the search page.
type AdCard struct {
	Title       string `json:"title" yaml:"title"`
	Price       string `json:"price" yaml:"price"`
	Description string `json:"description" yaml:"description"`
}

// ParseCards extracts the ad cards from a search page in document order.
func ParseCards(html string) ([]AdCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var cards []AdCard
	doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, parseCard(s))
	})
	return cards, nil
}

// CountCards reports how many card containers html holds. Unparseable markup
// counts as zero.
func CountCards(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	return doc.Find(cardSelector).Length()
}

func parseCard(s *goquery.Selection) AdCard {
	card := AdCard{
		Title:       NoTitle,
		Price:       NoPrice,
		Description: NoDescription,
	}

	title := s.Find("h1, h2, h3, h4, h5, h6").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return classContains(h, "title")
	}).First()
	if title.Length() > 0 {
		card.Title = cleanText(title.Text())
	}

	// A field whose element exists keeps its text, even when empty.
	if desc := findDiv(s, "description"); desc.Length() > 0 {
		card.Description = cleanText(desc.Text())
	}
	if price := findDiv(s, "price"); price.Length() > 0 {
		card.Price = cleanText(price.Text())
	}

	return card
}

func findDiv(s *goquery.Selection, fragment string) *goquery.Selection {
	return s.Find("div").FilterFunction(func(_ int, d *goquery.Selection) bool {
		return classContains(d, fragment)
	}).First()
}

// classContains matches fragment against the class attribute, ignoring case.
func classContains(s *goquery.Selection, fragment string) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(class), strings.ToLower(fragment))
}

// cleanText trims and collapses runs of whitespace to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatCards renders cards as a markdown list, or NoAdsFound when empty.
func FormatCards(cards []AdCard) string {
	if len(cards) == 0 {
		return NoAdsFound
	}

	var sb strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&sb, "- **%s**\n  - Price: %s\n  - Description: %s\n\n", c.Title, c.Price, c.Description)
	}
	return sb.String()
}
