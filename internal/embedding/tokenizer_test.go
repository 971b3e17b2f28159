package embedding

import "testing"

func TestSimpleTokenizerFraming(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, mask, types := tok.Tokenize("hello world", 8)

	if len(ids) != 8 || len(mask) != 8 || len(types) != 8 {
		t.Fatalf("lengths = %d/%d/%d, want 8", len(ids), len(mask), len(types))
	}
	if ids[0] != clsTokenID {
		t.Errorf("ids[0] = %d, want [CLS]", ids[0])
	}
	if ids[3] != sepTokenID {
		t.Errorf("ids[3] = %d, want [SEP] after two words", ids[3])
	}
	for i := 0; i < 4; i++ {
		if mask[i] != 1 {
			t.Errorf("mask[%d] = %d, want 1", i, mask[i])
		}
	}
	for i := 4; i < 8; i++ {
		if mask[i] != 0 {
			t.Errorf("mask[%d] = %d, want 0 padding", i, mask[i])
		}
	}
}

func TestSimpleTokenizerTruncatesLongInput(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, mask, _ := tok.Tokenize("a b c d e f g h i j", 6)

	if len(ids) != 6 {
		t.Fatalf("len = %d, want 6", len(ids))
	}
	// [CLS] + 4 words + [SEP] fills the window.
	if ids[5] != sepTokenID {
		t.Errorf("ids[5] = %d, want [SEP]", ids[5])
	}
	for i, m := range mask {
		if m != 1 {
			t.Errorf("mask[%d] = %d, want fully attended window", i, m)
		}
	}
}

func TestSplitWords(t *testing.T) {
	got := SplitWords("  one\ttwo\nthree ")
	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Errorf("got %v", got)
	}
	if got := SplitWords("   "); len(got) != 0 {
		t.Errorf("whitespace-only input: got %v", got)
	}
}

func TestHashStringDeterministicAndNonNegative(t *testing.T) {
	if HashString("alpha") != HashString("alpha") {
		t.Error("hash not deterministic")
	}
	if HashString("alpha") == HashString("beta") {
		t.Error("distinct words should almost surely differ")
	}
	for _, s := range []string{"", "x", "longer input with spaces"} {
		if HashString(s) < 0 {
			t.Errorf("HashString(%q) negative", s)
		}
	}
}

func TestTruncateAndJoinWords(t *testing.T) {
	words := []string{"a", "b", "c"}
	if got := TruncateWords(words, 2); len(got) != 2 {
		t.Errorf("got %v", got)
	}
	if got := TruncateWords(words, 10); len(got) != 3 {
		t.Errorf("got %v", got)
	}
	if got := JoinWords(words); got != "a b c" {
		t.Errorf("got %q", got)
	}
}
