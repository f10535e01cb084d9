// Package trie implements a static, read-optimised byte-packed trie
// for ranked prefix completion: build once from a lexicographically
// sorted (suggestion, score) sequence, then answer prefix-completion,
// exact-lookup and mismatch queries directly against the packed bytes.
package trie

import (
	"cmp"
	"slices"
	"sort"

	"github.com/arnegard/ordtrie/pkg/codec"
)

// Completion is one (suggestion, score) result from iteration or a
// completion query. Named fields are the primary interface; First and
// Second exist for callers that want to treat it as a plain pair.
type Completion[S any] struct {
	Suggestion string
	Score      S
}

func (c Completion[S]) First() string { return c.Suggestion }
func (c Completion[S]) Second() S     { return c.Score }

// Trie is an immutable ranked-prefix-completion index over suggestions
// carrying a score of type S. Every query operates directly on the
// packed bytes owned by store; nothing here is ever mutated after
// construction.
type Trie[S comparable] struct {
	store *store
	codec codec.Codec[S]
	root  node
}

func rootOf(buf []byte) node {
	return newNode(buf, 0, 0, skip(buf, 0))
}

// NewEmpty returns a trie holding no suggestions.
func NewEmpty[S comparable](c codec.Codec[S]) *Trie[S] {
	st := &store{trieBytes: []byte{sentinelEmptyHeader}}
	return &Trie[S]{store: st, codec: c, root: rootOf(st.trieBytes)}
}

// New builds a trie from suggestions already sorted in increasing
// lexicographic order, one score per suggestion at the same index.
// better(a, b) must report whether a should rank ahead of b; scores
// for which better never prefers one over the other are treated as
// tied and may come out in either relative order.
//
// Equal scores share a single score-table entry (see buildScoreTable),
// so S must be comparable; tied but unequal scores keep separate entries.
func New[S comparable](c codec.Codec[S], suggestions []string, scores []S, better func(a, b S) bool) (*Trie[S], error) {
	if len(suggestions) != len(scores) {
		return nil, ErrLengthMismatch
	}

	if len(suggestions) == 0 {
		return NewEmpty(c), nil
	}

	table, offsets := buildScoreTable(c, scores, better)

	labels := make([][]byte, len(suggestions))
	ranks := make([]uint64, len(suggestions))
	for i, s := range suggestions {
		labels[i] = []byte(s)
		ranks[i] = offsets[scores[i]]
	}

	trieBytes, err := buildTrie(labels, ranks)
	if err != nil {
		return nil, err
	}

	st := &store{trieBytes: trieBytes, scoreBytes: table}
	return &Trie[S]{store: st, codec: c, root: rootOf(trieBytes)}, nil
}

// NewFromPairs is New, taking suggestion/score pairs already bundled as
// Completions (the same type Iterator yields) instead of two parallel
// slices.
func NewFromPairs[S comparable](c codec.Codec[S], pairs []Completion[S], better func(a, b S) bool) (*Trie[S], error) {
	suggestions := make([]string, len(pairs))
	scores := make([]S, len(pairs))
	for i, p := range pairs {
		suggestions[i] = p.Suggestion
		scores[i] = p.Score
	}
	return New(c, suggestions, scores, better)
}

// NewOrdered is New with the default comparator (greater score ranks
// first), available whenever the score type has a natural order.
func NewOrdered[S cmp.Ordered](c codec.Codec[S], suggestions []string, scores []S) (*Trie[S], error) {
	return New(c, suggestions, scores, func(a, b S) bool { return a > b })
}

// ReadFile loads a trie previously written with Write, using c both to
// decode scores and to verify the file was produced for this score
// type (via its embedded format id).
func ReadFile[S comparable](c codec.Codec[S], path string) (*Trie[S], error) {
	st, err := readStore(path, c.FormatID())
	if err != nil {
		return nil, err
	}

	return &Trie[S]{store: st, codec: c, root: rootOf(st.trieBytes)}, nil
}

// buildScoreTable deduplicates scores, sorts the result so the
// highest-priority score (per better) comes first, and serialises them
// into a contiguous table. The returned map gives each distinct score's
// byte offset in that table, which becomes the rank stored on its
// leaves — so "lower offset" and "better score" coincide by
// construction.
func buildScoreTable[S comparable](c codec.Codec[S], scores []S, better func(a, b S) bool) ([]byte, map[S]uint64) {
	uniq := append([]S(nil), scores...)
	sort.SliceStable(uniq, func(i, j int) bool { return better(uniq[i], uniq[j]) })
	uniq = slices.Compact(uniq)

	table := make([]byte, 0, c.EstimatedMaxSize()*len(uniq))
	offsets := make(map[S]uint64, len(uniq))

	for _, v := range uniq {
		offsets[v] = uint64(len(table))
		table = c.Serialise(table, v)
	}

	return table, offsets
}

// Empty reports whether the trie holds no suggestions.
func (t *Trie[S]) Empty() bool { return t.root.isLeaf() }

// Iter returns an iterator over every suggestion, in decreasing order
// of priority (increasing packed rank).
func (t *Trie[S]) Iter() *Iterator[S] { return t.Complete("") }

// Complete returns an iterator over every suggestion extending prefix,
// in decreasing order of priority. The iterator is immediately
// exhausted if no suggestion starts with prefix.
func (t *Trie[S]) Complete(prefix string) *Iterator[S] {
	c := completionCursor(t.store.trieBytes, t.root, []byte(prefix))
	return &Iterator[S]{trie: t, it: newLeafIterator(t.store.trieBytes, c)}
}

// Count reports 1 if input names a stored suggestion, 0 otherwise.
func (t *Trie[S]) Count(input string) int {
	if _, ok := t.lookup(input); ok {
		return 1
	}
	return 0
}

// TryScore returns input's score and true, or the zero value and false
// if input names no stored suggestion.
func (t *Trie[S]) TryScore(input string) (S, bool) {
	leaf, ok := t.lookup(input)
	if !ok {
		var zero S
		return zero, false
	}
	return t.codec.Deserialise(t.store.scoreBytes[leaf.Rank():]), true
}

// Score returns input's score, or ErrNotFound if input names no
// stored suggestion.
func (t *Trie[S]) Score(input string) (S, error) {
	v, ok := t.TryScore(input)
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}

// Mismatch returns the length of the longest prefix of input that is
// also a prefix of some stored suggestion.
func (t *Trie[S]) Mismatch(input string) int {
	return mismatch(t.store.trieBytes, t.root, []byte(input))
}

// Size reports the byte length of the packed node stream and the score
// table backing the trie, for operational introspection.
func (t *Trie[S]) Size() (trieBytes, scoreBytes int) {
	return len(t.store.trieBytes), len(t.store.scoreBytes)
}

// Write persists the trie to path in the container format readable by
// ReadFile.
func (t *Trie[S]) Write(path string) error {
	return t.store.write(path, t.codec.FormatID())
}

// lookup runs exact match, additionally rejecting the degenerate match
// against the synthetic root itself (only reachable by querying an
// empty input against an empty trie).
func (t *Trie[S]) lookup(input string) (node, bool) {
	if t.Empty() {
		return node{}, false
	}

	leaf, ok := findLeaf(t.store.trieBytes, t.root, []byte(input))
	if !ok || leaf.equal(t.root) {
		return node{}, false
	}

	return leaf, true
}

// Iterator yields Completions of a trie or a Complete(prefix) range in
// decreasing priority order.
type Iterator[S comparable] struct {
	trie *Trie[S]
	it   *leafIterator
}

// Valid reports whether Completion is safe to call.
func (it *Iterator[S]) Valid() bool { return it.it.Valid() }

// Next advances to the next completion.
func (it *Iterator[S]) Next() { it.it.Next() }

// Completion decodes the current leaf into a (suggestion, score) pair.
func (it *Iterator[S]) Completion() Completion[S] {
	leaf := it.it.Node()
	label := descendingPath(it.trie.store.trieBytes, it.trie.root, leaf)
	score := it.trie.codec.Deserialise(it.trie.store.scoreBytes[leaf.Rank():])
	return Completion[S]{Suggestion: string(label), Score: score}
}

// Collect drains the iterator into a slice, mainly useful in tests.
func (it *Iterator[S]) Collect() []Completion[S] {
	var out []Completion[S]
	for it.Valid() {
		out = append(out, it.Completion())
		it.Next()
	}
	return out
}
