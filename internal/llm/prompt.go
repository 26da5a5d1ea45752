package llm

import (
	"fmt"
	"strings"
)

// ArticleSystemPrompt is sent with every article request.
const ArticleSystemPrompt = "You are an experienced content writer. Write original, helpful " +
	"articles in clean HTML using <h1>, <h2>, <p>, <ul> and <li>. Do not wrap the answer in code fences."

// KeywordSystemPrompt is sent with keyword suggestion requests.
const KeywordSystemPrompt = "You are an SEO researcher. Answer with a JSON array of strings only."

var articleTemplates = []string{
	"Write a %[4]d-word article about %[1]q. Naturally include the anchor text %[2]q linked to %[3]s exactly once. " +
		"Start with a single <h1> title.",
	"Write a beginner's guide to %[1]q of about %[4]d words with practical tips. " +
		"Link the phrase %[2]q to %[3]s once, in the body. Start with a single <h1> title.",
	"Write a listicle of the top considerations for %[1]q, roughly %[4]d words, with a short intro and conclusion. " +
		"Mention %[2]q once as a link to %[3]s. Start with a single <h1> title.",
}

// ArticleWords is the target article length.
const ArticleWords = 800

// ArticlePrompt returns one of the prompt variants. variant wraps modulo the
// number of variants so any counter can be passed.
func ArticlePrompt(keyword, anchorText, targetURL string, variant int) string {
	if variant < 0 {
		variant = -variant
	}
	anchor := strings.TrimSpace(anchorText)
	if anchor == "" {
		anchor = keyword
	}
	tmpl := articleTemplates[variant%len(articleTemplates)]
	return fmt.Sprintf(tmpl, strings.TrimSpace(keyword), anchor, targetURL, ArticleWords)
}

// KeywordPrompt asks for up to ten keywords related to seed.
func KeywordPrompt(seed string) string {
	return fmt.Sprintf("List 10 long-tail search keywords related to %q.", strings.TrimSpace(seed))
}
