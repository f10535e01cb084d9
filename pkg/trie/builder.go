package trie

import (
	"sort"

	"github.com/arnegard/ordtrie/internal/varint"
)

// buildNode is a node under construction: either a leaf carrying a
// score-table offset as its rank, or an internal node whose entire
// children sibling group has already been serialised into subtree.
// Leaves never carry an in-node payload (see node.go), so a leaf's
// "score" is entirely represented by rank.
type buildNode struct {
	label   []byte
	rank    uint64
	isLeaf  bool
	subtree []byte
}

// appendHeader appends one node's header block — header byte, offset
// varint, label, rank varint — to out.
func appendHeader(out []byte, label []byte, rank uint64, childrenOffset uint64, isLeaf bool) ([]byte, error) {
	if len(label) >= maxLabelSize {
		return nil, ErrLabelTooLong
	}

	headerPos := len(out)
	out = append(out, 0)

	var offTag, rankTag varint.Size
	out, offTag = varint.EncodeOffset(out, childrenOffset)
	out = append(out, label...)
	out, rankTag = varint.EncodeRank(out, rank)

	out[headerPos] = makeHeader(len(label), isLeaf, offTag, rankTag)
	return out, nil
}

// serialiseSiblings lays out an already rank-sorted sibling group as
// [header_1][header_2]...[header_N][subtree_1][subtree_2]...[subtree_N].
//
// Sibling 1's offset can only be known once every other header has been
// emitted (its children lie behind all of them), so headers 2..N are
// written first, then header 1, then the header block is rotated so
// that header 1 ends up in front where it belongs.
func serialiseSiblings(siblings []buildNode, baseRank uint64) ([]byte, error) {
	var tail []byte
	prevRank := siblings[0].rank

	for i := 1; i < len(siblings); i++ {
		childrenOffset := uint64(len(siblings[i-1].subtree))
		currentRank := siblings[i].rank

		if currentRank < prevRank {
			return nil, ErrRankNotMonotonic
		}

		var err error
		tail, err = appendHeader(tail, siblings[i].label, currentRank-prevRank, childrenOffset, siblings[i].isLeaf)
		if err != nil {
			return nil, err
		}

		prevRank = currentRank
	}

	totalTailSize := uint64(len(tail))

	head, err := appendHeader(nil, siblings[0].label, siblings[0].rank-baseRank, totalTailSize, siblings[0].isLeaf)
	if err != nil {
		return nil, err
	}

	out := append(head, tail...)

	for _, s := range siblings {
		out = append(out, s.subtree...)
	}

	return out, nil
}

// addChildren attaches children to parent, which must not already be a
// leaf. calledFromRoot marks the synthetic root's own invocation: its
// single-byte sentinel self-header loses its leaf bit, and the usual
// single-child collapse never applies to it.
func addChildren(parent *buildNode, children []buildNode, calledFromRoot bool) error {
	if len(children) == 0 {
		return nil
	}

	if calledFromRoot {
		parent.subtree[len(parent.subtree)-1] &^= isLeafMask
	} else if len(children) == 1 {
		child := children[0]
		if len(child.label)+len(parent.label) < maxLabelSize {
			parent.label = append(parent.label, child.label...)
			parent.subtree = child.subtree
			parent.rank = child.rank
			parent.isLeaf = child.isLeaf
			return nil
		}
	}

	sort.SliceStable(children, func(i, j int) bool {
		return children[i].rank < children[j].rank
	})

	var base uint64
	if !calledFromRoot {
		base = children[0].rank
	}
	parent.rank = base

	subtree, err := serialiseSiblings(children, base)
	if err != nil {
		return err
	}

	parent.subtree = append(parent.subtree, subtree...)
	return nil
}

// buildTrie assembles the serialised trie byte stream from suggestions
// sorted in increasing lexicographic order, each paired with the rank
// (score-table offset) at the same index in ranks.
//
// It maintains a stack of "open levels": level k holds the nodes
// currently attached to the length-k prefix of the previously seen
// suggestion. Each new suggestion merges every level deeper than its
// common prefix with the previous one into its parent, then extends
// the stack with one internal node per new character plus a final
// empty-label leaf.
func buildTrie(suggestions [][]byte, ranks []uint64) ([]byte, error) {
	if len(suggestions) != len(ranks) {
		return nil, ErrLengthMismatch
	}

	if len(suggestions) == 0 {
		return []byte{sentinelEmptyHeader}, nil
	}

	var levels [][]buildNode

	mergeLevels := func(targetDepth int) error {
		for len(levels) > targetDepth {
			current := levels[len(levels)-1]
			fatherLevel := levels[len(levels)-2]
			father := &fatherLevel[len(fatherLevel)-1]

			if err := addChildren(father, current, false); err != nil {
				return err
			}

			levels = levels[:len(levels)-1]
		}
		return nil
	}

	prev := suggestions[0]

	for i, s := range suggestions {
		lcp := 0

		if len(levels) > 0 {
			for lcp < len(s) && lcp < len(prev) && s[lcp] == prev[lcp] {
				lcp++
			}

			if err := mergeLevels(lcp + 1); err != nil {
				return nil, err
			}
		}

		for len(levels) < len(s)+1 {
			levels = append(levels, nil)
		}

		for idx := lcp; idx < len(s); idx++ {
			levels[idx] = append(levels[idx], buildNode{label: []byte{s[idx]}})
		}

		levels[len(s)] = append(levels[len(s)], buildNode{rank: ranks[i], isLeaf: true})

		prev = s
	}

	if err := mergeLevels(1); err != nil {
		return nil, err
	}

	root := buildNode{subtree: []byte{sentinelEmptyHeader}}
	if err := addChildren(&root, levels[0], true); err != nil {
		return nil, err
	}

	return root.subtree, nil
}
