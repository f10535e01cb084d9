package trie

import (
	"path/filepath"
	"testing"

	"github.com/arnegard/ordtrie/pkg/codec"
)

func collectPairs[S comparable](tr *Trie[S]) []Completion[S] {
	return tr.Iter().Collect()
}

func mustTrie(t *testing.T, suggestions []string, scores []uint64) *Trie[uint64] {
	t.Helper()
	tr, err := NewOrdered(codec.Uint64(), suggestions, scores)
	if err != nil {
		t.Fatalf("NewOrdered: %v", err)
	}
	return tr
}

// Scenario 1.
func TestTrieScenarioSingle(t *testing.T) {
	tr := mustTrie(t, []string{"a"}, []uint64{1})

	got := collectPairs(tr)
	want := []Completion[uint64]{{Suggestion: "a", Score: 1}}
	if !completionsEqual(got, want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}

	if tr.Count("a") != 1 {
		t.Errorf("Count(a) = %d, want 1", tr.Count("a"))
	}
	if tr.Mismatch("ab") != 1 {
		t.Errorf("Mismatch(ab) = %d, want 1", tr.Mismatch("ab"))
	}
	if got := tr.Complete("").Collect(); !completionsEqual(got, want) {
		t.Errorf("Complete(\"\") = %v, want %v", got, want)
	}
	if got := tr.Complete("b").Collect(); len(got) != 0 {
		t.Errorf("Complete(b) = %v, want empty", got)
	}
}

// Scenario 2.
func TestTrieScenarioRankOrdering(t *testing.T) {
	tr := mustTrie(t,
		[]string{"aaaaaaaaaaa", "abbb", "b", "bcc"},
		[]uint64{30, 1, 20, 20},
	)

	want := []Completion[uint64]{
		{Suggestion: "aaaaaaaaaaa", Score: 30},
		{Suggestion: "b", Score: 20},
		{Suggestion: "bcc", Score: 20},
		{Suggestion: "abbb", Score: 1},
	}
	if got := collectPairs(tr); !completionsEqual(got, want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}

	wantA := []Completion[uint64]{
		{Suggestion: "aaaaaaaaaaa", Score: 30},
		{Suggestion: "abbb", Score: 1},
	}
	if got := tr.Complete("a").Collect(); !completionsEqual(got, wantA) {
		t.Errorf("Complete(a) = %v, want %v", got, wantA)
	}

	if got := tr.Mismatch("aaaaaaaaaaaaa"); got != 11 {
		t.Errorf("Mismatch(aaaaaaaaaaaaa) = %d, want 11", got)
	}
}

// Scenario 3: a chain of strict prefixes, each a complete suggestion.
func TestTrieScenarioPrefixChain(t *testing.T) {
	tr := mustTrie(t,
		[]string{"", "a", "aa", "aaa", "aaaa", "aaaaa", "aaaaaa"},
		[]uint64{7, 6, 5, 4, 3, 2, 1},
	)

	want := []Completion[uint64]{
		{Suggestion: "aaaaa", Score: 2},
		{Suggestion: "aaaaaa", Score: 1},
	}
	if got := tr.Complete("aaaaa").Collect(); !completionsEqual(got, want) {
		t.Fatalf("Complete(aaaaa) = %v, want %v", got, want)
	}

	if tr.Count("aaa") != 1 {
		t.Errorf("Count(aaa) = %d, want 1", tr.Count("aaa"))
	}
	if tr.Count("") != 1 {
		t.Errorf("Count(\"\") = %d, want 1 (the empty suggestion was inserted)", tr.Count(""))
	}
}

// Scenario 4: lexicographically sorted input iterates out in decreasing
// score order.
func TestTrieScenarioAlreadySorted(t *testing.T) {
	tr := mustTrie(t,
		[]string{"a", "ab", "ac", "ba", "bd"},
		[]uint64{2, 3, 4, 2, 1},
	)

	want := []Completion[uint64]{
		{Suggestion: "ac", Score: 4},
		{Suggestion: "ab", Score: 3},
		{Suggestion: "a", Score: 2},
		{Suggestion: "ba", Score: 2},
		{Suggestion: "bd", Score: 1},
	}
	got := collectPairs(tr)
	if !completionsEqual(got, want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}

	wantA := []Completion[uint64]{
		{Suggestion: "ac", Score: 4},
		{Suggestion: "ab", Score: 3},
		{Suggestion: "a", Score: 2},
	}
	if got := tr.Complete("a").Collect(); !completionsEqual(got, wantA) {
		t.Errorf("Complete(a) = %v, want %v", got, wantA)
	}

	if got := tr.Mismatch("bbb"); got != 1 {
		t.Errorf("Mismatch(bbb) = %d, want 1", got)
	}
}

// Scenario 5: ties are broken deterministically (stable, but the exact
// within-tie order is not contractually specified beyond that).
func TestTrieScenarioTies(t *testing.T) {
	tr := mustTrie(t, []string{"aa", "ab", "ba", "bb"}, []uint64{1, 2, 1, 2})

	got := collectPairs(tr)
	if len(got) != 4 {
		t.Fatalf("Iter() returned %d completions, want 4", len(got))
	}
	for i := 0; i+1 < len(got); i++ {
		if got[i].Score < got[i+1].Score {
			t.Errorf("Iter() not non-increasing by score: %v", got)
		}
	}
}

func TestTrieDuplicateScoresDedup(t *testing.T) {
	tr, err := New(codec.Uint64(), []string{"a", "b", "c"}, []uint64{5, 5, 5}, func(a, b uint64) bool { return a > b })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, s := range []string{"a", "b", "c"} {
		score, ok := tr.TryScore(s)
		if !ok || score != 5 {
			t.Errorf("TryScore(%s) = %d, %v, want 5, true", s, score, ok)
		}
	}
}

func TestTrieEmptyBoundary(t *testing.T) {
	tr := NewEmpty(codec.Uint64())

	if !tr.Empty() {
		t.Errorf("Empty() = false, want true")
	}
	if got := tr.Iter().Collect(); len(got) != 0 {
		t.Errorf("Iter() = %v, want empty", got)
	}
	if got := tr.Complete("anything").Collect(); len(got) != 0 {
		t.Errorf("Complete(anything) = %v, want empty", got)
	}
	if tr.Count("x") != 0 {
		t.Errorf("Count(x) = %d, want 0", tr.Count("x"))
	}
	if tr.Mismatch("x") != 0 {
		t.Errorf("Mismatch(x) = %d, want 0", tr.Mismatch("x"))
	}
	if _, ok := tr.TryScore("x"); ok {
		t.Errorf("TryScore(x) ok = true, want false")
	}
	if _, err := tr.Score("x"); err != ErrNotFound {
		t.Errorf("Score(x) err = %v, want ErrNotFound", err)
	}
}

func TestTrieEmptyInputAgainstEmptyTrie(t *testing.T) {
	tr := NewEmpty(codec.Uint64())
	if tr.Count("") != 0 {
		t.Errorf("Count(\"\") on empty trie = %d, want 0 (must not match the root)", tr.Count(""))
	}
}

func TestTrieNotFoundMismatch(t *testing.T) {
	tr := mustTrie(t, []string{"cat", "car"}, []uint64{2, 1})
	if got := tr.Count("dog"); got != 0 {
		t.Errorf("Count(dog) = %d, want 0", got)
	}
	if got := tr.Mismatch("dog"); got != 0 {
		t.Errorf("Mismatch(dog) = %d, want 0", got)
	}
	if got := tr.Mismatch("ca"); got != 2 {
		t.Errorf("Mismatch(ca) = %d, want 2", got)
	}
}

func TestTrieLengthMismatch(t *testing.T) {
	_, err := New(codec.Uint64(), []string{"a"}, nil, func(a, b uint64) bool { return a > b })
	if err != ErrLengthMismatch {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestTrieWriteReadRoundTrip(t *testing.T) {
	tr := mustTrie(t,
		[]string{"aaaaaaaaaaa", "abbb", "b", "bcc"},
		[]uint64{30, 1, 20, 20},
	)

	path := filepath.Join(t.TempDir(), "suggestions.trie")
	if err := tr.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := ReadFile(codec.Uint64(), path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := collectPairs(tr)
	got := collectPairs(loaded)
	if !completionsEqual(got, want) {
		t.Fatalf("round-tripped Iter() = %v, want %v", got, want)
	}

	for _, s := range []string{"aaaaaaaaaaa", "abbb", "b", "bcc", "nope"} {
		wantScore, wantOK := tr.TryScore(s)
		gotScore, gotOK := loaded.TryScore(s)
		if wantOK != gotOK || wantScore != gotScore {
			t.Errorf("TryScore(%s) = %d,%v, want %d,%v", s, gotScore, gotOK, wantScore, wantOK)
		}
	}
}

func TestTrieReadFileWrongFormat(t *testing.T) {
	tr := mustTrie(t, []string{"a"}, []uint64{1})
	path := filepath.Join(t.TempDir(), "suggestions.trie")
	if err := tr.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := ReadFile(codec.Int32(), path); err != ErrUnknownScoreType {
		t.Errorf("ReadFile with mismatched codec err = %v, want ErrUnknownScoreType", err)
	}
}

func TestNewFromPairs(t *testing.T) {
	pairs := []Completion[uint64]{
		{Suggestion: "x", Score: 2},
		{Suggestion: "y", Score: 1},
	}
	tr, err := NewFromPairs(codec.Uint64(), pairs, func(a, b uint64) bool { return a > b })
	if err != nil {
		t.Fatalf("NewFromPairs: %v", err)
	}
	if tr.Count("x") != 1 || tr.Count("y") != 1 {
		t.Errorf("NewFromPairs did not index both suggestions")
	}
}

func completionsEqual[S comparable](a, b []Completion[S]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
