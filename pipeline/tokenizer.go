package pipeline

import (
	"unicode"
)

// span is a token with its character offsets into the request text.
type span struct {
	Word  string `json:"word"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
}

// tokenize splits text into sentences of offset-carrying tokens. Sentences
// break on newlines and sentence-final punctuation; tokens break on spaces,
// with punctuation split off as separate tokens.
func tokenize(text string) [][]span {
	var sentences [][]span
	var sentence []span
	var word []rune
	wordBegin := 0

	flushWord := func(end int) {
		if len(word) > 0 {
			sentence = append(sentence, span{Word: string(word), Begin: wordBegin, End: end})
			word = word[:0]
		}
	}
	flushSentence := func(end int) {
		flushWord(end)
		if len(sentence) > 0 {
			sentences = append(sentences, sentence)
			sentence = nil
		}
	}

	for i, r := range text {
		switch {
		case r == '\n':
			flushSentence(i)
		case unicode.IsSpace(r):
			flushWord(i)
		case r == '.' || r == '!' || r == '?':
			flushWord(i)
			sentence = append(sentence, span{Word: string(r), Begin: i, End: i + 1})
			flushSentence(i + 1)
		case unicode.IsPunct(r):
			flushWord(i)
			sentence = append(sentence, span{Word: string(r), Begin: i, End: i + 1})
		default:
			if len(word) == 0 {
				wordBegin = i
			}
			word = append(word, r)
		}
	}
	flushSentence(len(text))
	return sentences
}
