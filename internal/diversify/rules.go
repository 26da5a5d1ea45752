// Package diversify rewrites static landing pages so that pages generated
// from one template stop sharing identical boilerplate.
package diversify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFAQPattern matches one question heading and its answer paragraph.
const DefaultFAQPattern = `(?s)<h3>[^<]*\?</h3>\s*<p>.*?</p>`

// Rules configure a Transformer.
type Rules struct {
	// Phrases maps a boilerplate phrase to its alternatives. Matching is
	// case-insensitive.
	Phrases map[string][]string `yaml:"phrases"`
	// MaxLinks caps <a> elements per page. Zero disables the cap.
	MaxLinks int `yaml:"max_links"`
	// FAQPattern matches one FAQ item. Empty uses DefaultFAQPattern; "-"
	// disables shuffling.
	FAQPattern string `yaml:"faq_pattern"`
}

// DefaultRules are the phrase swaps applied when no rules file is given.
func DefaultRules() Rules {
	return Rules{
		Phrases: map[string][]string{
			"the ultimate guide to": {
				"a practical guide to",
				"everything you need to know about",
				"the complete playbook for",
			},
			"in the competitive world of search engine optimization": {
				"in today's crowded search landscape",
				"as search competition keeps growing",
				"in a search market where every position counts",
			},
			"this comprehensive guide will explore": {
				"this guide walks through",
				"below we cover",
				"this article breaks down",
			},
			"whether you're a seasoned marketer or just starting": {
				"whether you run an agency or a single site",
				"for beginners and experienced teams alike",
				"no matter how long you have been doing seo",
			},
			"ready to transform your seo?": {
				"want results like these?",
				"ready to get started?",
				"looking for a faster way forward?",
			},
		},
		MaxLinks:   3,
		FAQPattern: DefaultFAQPattern,
	}
}

// LoadRules reads rules from a YAML file. Unset fields keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	if err = yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules: %w", err)
	}
	return rules, nil
}
