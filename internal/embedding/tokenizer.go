package embedding

import (
	"hash/fnv"
	"strings"
)

const (
	clsTokenID = 101
	sepTokenID = 102

	simpleVocabSize = 30000
)

// Tokenizer produces BERT-style model inputs (input_ids, attention_mask,
// token_type_ids) from raw text.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer maps whitespace-split words to hashed token IDs. It is a
// stand-in for a real vocabulary, good enough for smoke-testing a model.
type SimpleTokenizer struct{}

// Tokenize returns fixed-length padded sequences of maxTokens entries,
// framed by [CLS] and [SEP].
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	words := TruncateWords(SplitWords(text), maxTokens-2)
	pos := 1
	for _, word := range words {
		inputIDs[pos] = int64(HashString(word) % simpleVocabSize)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on any whitespace, dropping empty tokens.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// HashString returns a deterministic non-negative hash of s (FNV-1a).
func HashString(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() & 0x7fffffff)
}

// TruncateWords caps words at maxWords entries.
func TruncateWords(words []string, maxWords int) []string {
	if maxWords < 0 || len(words) <= maxWords {
		return words
	}
	return words[:maxWords]
}

// JoinWords joins words back into a single space-separated string.
func JoinWords(words []string) string {
	return strings.Join(words, " ")
}
