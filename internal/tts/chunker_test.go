package tts

import (
	"strings"
	"testing"
)

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("Hello world.", 200)
	if len(chunks) != 1 || chunks[0] != "Hello world." {
		t.Errorf("chunks = %q, want single chunk", chunks)
	}
}

func TestSplitChunks_EmptyText(t *testing.T) {
	if chunks := SplitChunks("   ", 200); chunks != nil {
		t.Errorf("chunks = %q, want nil", chunks)
	}
}

func TestSplitChunks_PacksSentencesUpToMax(t *testing.T) {
	// Two 90-rune sentences fit one 200-rune chunk; the third
	// overflows it.
	s := strings.Repeat("a", 89) + "."
	chunks := SplitChunks(s+" "+s+" "+s, 200)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if got := len([]rune(chunks[0])); got > 200 {
		t.Errorf("chunk 0 length = %d, want <= 200", got)
	}
	if chunks[1] != s {
		t.Errorf("chunk 1 = %q, want the third sentence alone", chunks[1])
	}
}

func TestSplitChunks_NeverExceedsMax(t *testing.T) {
	text := strings.Repeat("word word word. ", 100)
	for _, c := range SplitChunks(text, 200) {
		if n := len([]rune(c)); n > 200 {
			t.Errorf("chunk length = %d, want <= 200: %q", n, c)
		}
	}
}

func TestSplitChunks_HardSplitsOversizedSentence(t *testing.T) {
	// One 450-rune sentence with no boundary must split mid-sentence.
	text := strings.Repeat("a", 450)
	chunks := SplitChunks(text, 200)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	total := 0
	for _, c := range chunks {
		n := len([]rune(c))
		if n > 200 {
			t.Errorf("chunk length = %d, want <= 200", n)
		}
		total += n
	}
	if total != 450 {
		t.Errorf("total runes = %d, want 450 (no text lost)", total)
	}
}

func TestSplitChunks_CJKBoundaries(t *testing.T) {
	chunks := SplitChunks("안녕하세요。 반갑습니다!\n잘 지내세요?", 10)
	want := []string{"안녕하세요。", "반갑습니다!", "잘 지내세요?"}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %q, want %q", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitChunks_CountsRunesNotBytes(t *testing.T) {
	// 150 Hangul runes are 450 bytes; they must still fit one
	// 200-rune chunk.
	text := strings.Repeat("가", 150)
	chunks := SplitChunks(text, 200)
	if len(chunks) != 1 {
		t.Errorf("chunks = %d, want 1", len(chunks))
	}
}
