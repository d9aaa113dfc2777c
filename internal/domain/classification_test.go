package domain

import "testing"

func TestBoardBucketsHaveTabsAndLabels(t *testing.T) {
	want := map[StatusBucket][2]string{
		StatusOpen:       {"abertos", "Aberto"},
		StatusInProgress: {"andamento", "Em Andamento"},
		StatusResolved:   {"resolvidos", "Resolvido"},
	}
	for _, b := range BoardBuckets {
		if !b.Classified() {
			t.Fatalf("%s must be classified", b)
		}
		if got := [2]string{b.SectionID(), b.Label()}; got != want[b] {
			t.Fatalf("%s: got %v want %v", b, got, want[b])
		}
	}

	if StatusUnclassified.Classified() || StatusUnclassified.SectionID() != "" || StatusUnclassified.Label() != "" {
		t.Fatal("unclassified bucket must have no tab or label")
	}
}
