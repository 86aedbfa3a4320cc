package tts

import "strings"

// sentenceEnd reports whether r terminates a sentence. Covers both
// ASCII and full-width CJK punctuation.
func sentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// SplitChunks breaks text into synthesis-sized chunks of at most max
// runes, preferring sentence boundaries. Sentences are packed
// greedily; a single sentence longer than max is split mid-sentence.
func SplitChunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if max <= 0 {
		return []string{text}
	}

	var chunks []string
	var cur []rune

	flush := func() {
		s := strings.TrimSpace(string(cur))
		if s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, sentence := range splitSentences(text) {
		runes := []rune(sentence)

		// Oversized sentence: flush what we have and hard-split.
		if len(runes) > max {
			flush()
			for len(runes) > max {
				chunks = append(chunks, strings.TrimSpace(string(runes[:max])))
				runes = runes[max:]
			}
			cur = append(cur, runes...)
			continue
		}

		// +1 for the joining space.
		if len(cur) > 0 && len(cur)+1+len(runes) > max {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, runes...)
	}
	flush()

	return chunks
}

// splitSentences cuts text at sentence terminators and newlines, each
// piece keeping its terminator. Whitespace-only pieces are dropped.
func splitSentences(text string) []string {
	var sentences []string
	var cur []rune

	flush := func() {
		s := strings.TrimSpace(string(cur))
		if s != "" {
			sentences = append(sentences, s)
		}
		cur = cur[:0]
	}

	for _, r := range text {
		if r == '\n' {
			flush()
			continue
		}
		cur = append(cur, r)
		if sentenceEnd(r) {
			flush()
		}
	}
	flush()

	return sentences
}
