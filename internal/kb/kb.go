// Package kb holds a small in-memory knowledge base built from a Markdown
// fact sheet. The dialog falls back to it when the completion API is down, so
// a user still gets an answer sourced from the platform's own material.
//
// Facts are paragraphs; Markdown table rows are flattened into one fact per
// row during loading. Matching uses Jaccard similarity between the query
// token set and each fact's token set. The index is immutable after
// construction and safe for concurrent use.
package kb

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Result is one ranked fact with its similarity score.
type Result struct {
	Fact  string
	Score float64
}

// minBestScore is the floor below which Best reports no usable answer.
const minBestScore = 0.1

type Option func(*options)

type options struct {
	minFactRunes int
	stopwords    map[string]struct{}
	maxFacts     int
}

func defaultOptions() options {
	return options{minFactRunes: 20}
}

// WithMinFactRunes drops facts shorter than n runes during loading.
func WithMinFactRunes(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minFactRunes = n
		}
	}
}

// WithStopwords removes the given words from both facts and queries before
// scoring.
func WithStopwords(words []string) Option {
	return func(o *options) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			o.stopwords = m
		}
	}
}

// WithMaxFacts caps the number of facts loaded.
func WithMaxFacts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFacts = n
		}
	}
}

type fact struct {
	text   string
	tokens map[string]struct{}
}

// Index answers similarity queries over the loaded facts.
type Index struct {
	opts  options
	facts []fact
}

// Load reads the Markdown fact sheet at path and builds an index from it.
func Load(path string, opts ...Option) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var facts []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var para strings.Builder
	flush := func() {
		if t := strings.TrimSpace(para.String()); t != "" {
			facts = append(facts, t)
		}
		para.Reset()
	}
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|"):
			// Table rows become standalone facts.
			flush()
			if row := flattenTableRow(line); row != "" {
				facts = append(facts, row)
			}
		default:
			if para.Len() > 0 {
				para.WriteByte(' ')
			}
			para.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return FromStrings(facts, opts...), nil
}

// FromStrings builds an index directly from a slice of facts.
func FromStrings(facts []string, opts ...Option) *Index {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	idx := &Index{opts: o}
	for _, raw := range facts {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if o.minFactRunes > 0 && utf8.RuneCountInString(t) < o.minFactRunes {
			continue
		}
		toks := tokenize(t, o.stopwords)
		if len(toks) == 0 {
			continue
		}
		idx.facts = append(idx.facts, fact{text: t, tokens: toks})
		if o.maxFacts > 0 && len(idx.facts) >= o.maxFacts {
			break
		}
	}
	return idx
}

// Len reports the number of loaded facts.
func (i *Index) Len() int { return len(i.facts) }

// Best returns the single strongest fact for the query, or ok=false when
// nothing clears the relevance floor.
func (i *Index) Best(query string) (string, bool) {
	top := i.TopK(query, 1)
	if len(top) == 0 || top[0].Score < minBestScore {
		return "", false
	}
	return top[0].Fact, true
}

// TopK returns up to k facts ranked by Jaccard similarity. Ties break toward
// shorter facts, then lexicographically, so the order is stable.
func (i *Index) TopK(query string, k int) []Result {
	if len(i.facts) == 0 || k <= 0 {
		return nil
	}
	qTokens := tokenize(query, i.opts.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	scored := make([]Result, 0, len(i.facts))
	for _, f := range i.facts {
		over := overlap(qTokens, f.tokens)
		if over == 0 {
			continue
		}
		union := len(qTokens) + len(f.tokens) - over
		scored = append(scored, Result{Fact: f.text, Score: float64(over) / float64(union)})
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		la, lb := utf8.RuneCountInString(scored[a].Fact), utf8.RuneCountInString(scored[b].Fact)
		if la != lb {
			return la < lb
		}
		return scored[a].Fact < scored[b].Fact
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// flattenTableRow joins a Markdown table row's cells into one fact. Separator
// rows (dashes and colons only) return "".
func flattenTableRow(line string) string {
	cells := strings.Split(strings.Trim(line, "|"), "|")
	cleaned := make([]string, 0, len(cells))
	allSep := true
	for _, c := range cells {
		cell := strings.TrimSpace(c)
		if cell != "" {
			cleaned = append(cleaned, cell)
		}
		rest := strings.Trim(cell, ":-")
		if strings.TrimSpace(rest) != "" {
			allSep = false
		}
	}
	if allSep || len(cleaned) == 0 {
		return ""
	}
	return strings.Join(cleaned, " ")
}
