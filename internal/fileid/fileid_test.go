package fileid

import "testing"

func TestDocIDStable(t *testing.T) {
	a := DocID("/data/docs/riri.txt")
	b := DocID("/data/docs/riri.txt")
	if a != b {
		t.Errorf("same path should yield same ID: %s vs %s", a, b)
	}
}

func TestDocIDCleansPath(t *testing.T) {
	a := DocID("/data/docs/riri.txt")
	b := DocID("/data/docs/../docs/riri.txt")
	if a != b {
		t.Errorf("equivalent paths should yield same ID")
	}
}

func TestDocIDDistinct(t *testing.T) {
	if DocID("a.txt") == DocID("b.txt") {
		t.Error("different names should yield different IDs")
	}
}
