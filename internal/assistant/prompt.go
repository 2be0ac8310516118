package assistant

import (
	"fmt"
	"unicode/utf8"

	"github.com/jmylchreest/divarsearch/internal/logger"
)

const optimizerSystemPrompt = "You are a search query optimizer. Extract the most important keyword from the user's query."

const optimizerUserPrompt = "Extract the most relevant keywords for searching from: %s. it must be atmost two words and not have words like Keyword. it is better to be persian meaningful words."

const summaryPrompt = "You are a helpful traveller assistant that finds relevant advertisements from scraped data from Divar.ir. " +
	"according to this scraped data: %s, make a bulleted list that contains the title, description and price of relevant advertisements. " +
	"Do not explain more details. just showing the distinct advertisements. relevant_advertisements:"

// TruncationMarker ends scraped text that was cut to fit the prompt.
const TruncationMarker = "\n\n[Content truncated due to length...]"

// BuildOptimizerPrompt creates the user message for query optimization.
func BuildOptimizerPrompt(query string) string {
	return fmt.Sprintf(optimizerUserPrompt, query)
}

// BuildSummaryPrompt embeds scraped text in the summarization instructions.
func BuildSummaryPrompt(scraped string, maxContentSize int) string {
	return fmt.Sprintf(summaryPrompt, truncateContent(scraped, maxContentSize))
}

// truncateContent limits content to maxLen bytes without splitting a rune.
// maxLen of 0 means no limit.
func truncateContent(content string, maxLen int) string {
	if maxLen <= 0 || len(content) <= maxLen {
		return content
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}

	logger.Warn("scraped content truncated due to length",
		"original_bytes", len(content),
		"max_bytes", maxLen,
		"truncated_bytes", len(content)-cut)
	return content[:cut] + TruncationMarker
}
