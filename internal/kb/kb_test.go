package kb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromStrings_FiltersShortAndEmpty(t *testing.T) {
	idx := FromStrings([]string{
		"",
		"too short",
		"Student visas for Germany usually take four to eight weeks to process.",
	})
	if idx.Len() != 1 {
		t.Fatalf("len = %d, want 1", idx.Len())
	}
}

func TestTopK_RanksByOverlap(t *testing.T) {
	idx := FromStrings([]string{
		"Student visas for Germany usually take four to eight weeks to process.",
		"Work permits in Poland require a confirmed job offer from a local employer.",
		"Currency conversion is available for thirty one supported currencies.",
	}, WithMinFactRunes(0))

	got := idx.TopK("how long does a student visa for germany take", 2)
	if len(got) == 0 {
		t.Fatalf("expected results")
	}
	if want := "Student visas for Germany usually take four to eight weeks to process."; got[0].Fact != want {
		t.Fatalf("top fact = %q", got[0].Fact)
	}
	if got[0].Score <= 0 || got[0].Score > 1 {
		t.Fatalf("score out of range: %v", got[0].Score)
	}
}

func TestTopK_NoOverlapReturnsNil(t *testing.T) {
	idx := FromStrings([]string{"Work permits in Poland require a confirmed job offer."}, WithMinFactRunes(0))
	if got := idx.TopK("xylophone", 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestTopK_DeterministicTieBreak(t *testing.T) {
	// Equal scores and equal lengths, so the lexicographic rule decides.
	idx := FromStrings([]string{
		"bravo visa fact",
		"alpha visa fact",
	}, WithMinFactRunes(0))

	got := idx.TopK("visa fact", 2)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Fact != "alpha visa fact" {
		t.Fatalf("tie break order wrong: %q first", got[0].Fact)
	}

	// With equal scores the shorter fact wins ahead of the lexicographic rule.
	idx = FromStrings([]string{
		"alpha visa fact",
		"zz visa fact",
	}, WithMinFactRunes(0))
	got = idx.TopK("visa fact", 2)
	if len(got) != 2 || got[0].Fact != "zz visa fact" {
		t.Fatalf("shorter fact should rank first: %+v", got)
	}
}

func TestBest_AppliesRelevanceFloor(t *testing.T) {
	idx := FromStrings([]string{
		"Work permits in Poland require a confirmed job offer from a local employer plus several supporting documents and translations.",
	}, WithMinFactRunes(0))

	if _, ok := idx.Best("poland"); ok {
		// One token out of a long fact scores well under the floor.
		t.Fatalf("weak match should not clear the floor")
	}
	if fact, ok := idx.Best("poland work permits job offer employer documents"); !ok || fact == "" {
		t.Fatalf("strong match rejected")
	}
}

func TestStopwords_RemovedFromBothSides(t *testing.T) {
	idx := FromStrings([]string{"the visa process"}, WithMinFactRunes(0), WithStopwords([]string{"the"}))
	got := idx.TopK("the the the", 1)
	if got != nil {
		t.Fatalf("stopword-only query must return nil")
	}
}

func TestLoad_FlattensTables(t *testing.T) {
	md := `# Prices

Intro paragraph about the CV preparation service offered on the platform.

| Service | Price |
|---------|-------|
| CV preparation | 10 EUR |
| Cover letter | 10 EUR |
`
	path := filepath.Join(t.TempDir(), "kb.md")
	if err := os.WriteFile(path, []byte(md), 0o600); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path, WithMinFactRunes(0))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := idx.TopK("cv preparation price", 1)
	if len(got) != 1 || got[0].Fact != "CV preparation 10 EUR" {
		t.Fatalf("table row not flattened, got %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatalf("expected error")
	}
}
