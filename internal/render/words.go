package render

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords keeps the word cloud from being dominated by glue words. The list
// covers common English plus review boilerplate.
var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "but": true, "by": true, "can": true,
	"come": true, "could": true, "did": true, "do": true, "for": true,
	"from": true, "get": true, "go": true, "got": true, "had": true,
	"has": true, "have": true, "he": true, "her": true, "here": true,
	"him": true, "his": true, "how": true, "i": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "just": true,
	"like": true, "me": true, "more": true, "my": true, "no": true,
	"not": true, "of": true, "on": true, "one": true, "or": true,
	"our": true, "out": true, "she": true, "so": true, "some": true,
	"than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "they": true, "this": true, "to": true,
	"up": true, "us": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "which": true, "who": true, "will": true,
	"with": true, "would": true, "you": true, "your": true,
	"place": true, "really": true, "very": true,
}

// WordCount is a word with its frequency, for the word cloud.
type WordCount struct {
	Word  string
	Count int
}

// CountWords tokenizes the review text, drops stopwords and single letters,
// and returns the top words by frequency. Ordering is deterministic: count
// descending, then alphabetical.
func CountWords(text string, top int) []WordCount {
	counts := make(map[string]int)

	for _, raw := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}) {
		w := strings.Trim(raw, "'")
		if len(w) < 2 || stopwords[w] {
			continue
		}
		counts[w]++
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})

	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
