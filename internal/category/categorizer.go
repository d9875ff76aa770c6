package category

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Categorizer maps a description to a category name with a single automaton pass.
// It is safe for concurrent use.
type Categorizer struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	ruleOf   []int // pattern index -> first rule declaring it
	names    []string
	fallback string
}

func NewCategorizer(cfg Config) *Categorizer {
	c := &Categorizer{fallback: cfg.Default}
	if c.fallback == "" {
		c.fallback = DefaultName
	}

	// A keyword repeated across rules belongs to the earliest rule; the matcher
	// would otherwise keep only one index for the shared trie node.
	seen := make(map[string]struct{})

	var patterns []string

	for i, rule := range cfg.Rules {
		c.names = append(c.names, rule.Name)

		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}

			if _, dup := seen[kw]; dup {
				continue
			}

			seen[kw] = struct{}{}
			patterns = append(patterns, kw)
			c.ruleOf = append(c.ruleOf, i)
		}
	}

	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(patterns)
	}

	return c
}

// Categorize returns the first rule, in declaration order, with a keyword
// contained in the lower-cased description, or the default name.
func (c *Categorizer) Categorize(description string) string {
	if c.matcher == nil || description == "" {
		return c.fallback
	}

	c.mu.Lock()
	hits := c.matcher.Match([]byte(strings.ToLower(description)))
	c.mu.Unlock()

	best := -1

	for _, idx := range hits {
		if idx < 0 || idx >= len(c.ruleOf) {
			continue
		}

		if r := c.ruleOf[idx]; best == -1 || r < best {
			best = r
		}
	}

	if best == -1 {
		return c.fallback
	}

	return c.names[best]
}

func (c *Categorizer) Default() string {
	return c.fallback
}
