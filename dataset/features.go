package dataset

import (
	"strings"
	"unicode"

	"text2phenotype.com/seqlearn/types"
	"text2phenotype.com/seqlearn/utils"
)

const (
	prefixLength = 4
	suffixLength = 4
)

// Extractor turns the raw words of a sentence into the per-token feature
// sets the decoder consumes.
type Extractor interface {
	Extract(words []string) types.Sequence
}

// TemplateExtractor produces contextual string features and encodes them
// through a shared feature encoder. While the encoder is unlocked new
// feature strings grow the space; afterwards unknown strings are dropped.
type TemplateExtractor struct {
	features *types.Encoder
}

func NewTemplateExtractor(features *types.Encoder) *TemplateExtractor {
	return &TemplateExtractor{features: features}
}

func (ext *TemplateExtractor) Extract(words []string) types.Sequence {
	seq := make(types.Sequence, len(words))
	for i, word := range words {
		contexts := tokenContexts(i, words)
		features := make([]int, 0, len(contexts))
		for _, ctx := range contexts {
			idx := ext.features.Index(ctx)
			if idx == types.UnknownIndex {
				continue
			}
			features = append(features, idx)
		}
		seq[i] = types.Token{Word: word, Features: features}
	}
	return seq
}

// HashedExtractor hashes the same context strings into a fixed number of
// buckets, for dense models with a bounded feature dimension.
type HashedExtractor struct {
	buckets int
}

func NewHashedExtractor(buckets int) *HashedExtractor {
	return &HashedExtractor{buckets: buckets}
}

func (ext *HashedExtractor) Extract(words []string) types.Sequence {
	seq := make(types.Sequence, len(words))
	for i, word := range words {
		hashes := utils.HashStrings(tokenContexts(i, words))
		features := make([]int, len(hashes))
		for j, hash := range hashes {
			features[j] = int(hash % uint64(ext.buckets))
		}
		seq[i] = types.Token{Word: word, Features: features}
	}
	return seq
}

const (
	sentenceBegin = "*SB*"
	sentenceEnd   = "*SE*"
)

func tokenContexts(index int, words []string) []string {
	word := words[index]
	lex := strings.ToLower(word)

	prev, prevprev := sentenceBegin, sentenceBegin
	next, nextnext := sentenceEnd, sentenceEnd
	if index > 0 {
		prev = strings.ToLower(words[index-1])
		if index > 1 {
			prevprev = strings.ToLower(words[index-2])
		}
	}
	if index+1 < len(words) {
		next = strings.ToLower(words[index+1])
		if index+2 < len(words) {
			nextnext = strings.ToLower(words[index+2])
		}
	}

	var contexts []string
	contexts = append(contexts, "default", "w="+lex)

	for _, suf := range getSuffixes(lex) {
		contexts = append(contexts, "suf="+suf)
	}
	for _, pref := range getPrefixes(lex) {
		contexts = append(contexts, "pre="+pref)
	}

	if strings.ContainsRune(lex, '-') {
		contexts = append(contexts, "h")
	}
	if hasUpper(word) {
		contexts = append(contexts, "c")
	}
	if hasDigit(word) {
		contexts = append(contexts, "d")
	}

	contexts = append(contexts, "p="+prev, "pp="+prevprev)
	contexts = append(contexts, "n="+next, "nn="+nextnext)
	return contexts
}

func getPrefixes(lex string) []string {
	prefs := make([]string, prefixLength)
	for li := 0; li < prefixLength; li++ {
		idx := len(lex)
		if idx > li+1 {
			idx = li + 1
		}
		prefs[li] = lex[:idx]
	}
	return prefs
}

func getSuffixes(lex string) []string {
	suffs := make([]string, suffixLength)
	for li := 0; li < suffixLength; li++ {
		idx := len(lex) - li - 1
		if idx < 0 {
			idx = 0
		}
		suffs[li] = lex[idx:]
	}
	return suffs
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
