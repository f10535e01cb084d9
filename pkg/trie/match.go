package trie

// prefixMatch descends from root following input byte by byte, as far
// as the trie goes. It returns:
//
//   - locus: the deepest node reached (root itself if nothing matched)
//   - consumed: how many bytes of input were matched
//   - labelDone: whether locus's own label was matched in full (false
//     when input ran out, or a byte mismatched, partway through it)
//
// Callers distinguish three outcomes by comparing consumed against
// len(input) and checking labelDone: a full descent (consumed ==
// len(input) && labelDone) lands exactly on a node; input running out
// partway through locus's label (consumed == len(input) && !labelDone)
// means every suggestion under locus starts with input; a short descent
// means no suggestion starts with the full input.
func prefixMatch(buf []byte, root node, input []byte) (locus node, consumed int, labelDone bool) {
	locus = root
	i := 0
	labelDone = true

	for i < len(input) {
		c := findSibling(childrenOf(buf, locus), input[i])
		if !c.Valid() {
			break
		}

		locus = c.Node()
		lbl := locus.label()
		j, k := 1, i+1

		for j < len(lbl) && k < len(input) {
			if input[k] != lbl[j] {
				return locus, k, false
			}
			j++
			k++
		}

		i = k
		labelDone = j == len(lbl)
	}

	return locus, i, labelDone
}

// mismatch returns the length of the longest prefix of input that is
// also a prefix of some stored suggestion.
func mismatch(buf []byte, root node, input []byte) int {
	_, consumed, _ := prefixMatch(buf, root, input)
	return consumed
}

// findLeaf reports whether input names an exact suggestion, and if so
// returns the node whose Rank is that suggestion's score-table offset.
// A suggestion that is itself a strict prefix of longer suggestions is
// stored as a zero-label leaf child of the node its own characters
// land on, so a full-length descent that lands on an internal node
// still checks for one such child before giving up.
func findLeaf(buf []byte, root node, input []byte) (node, bool) {
	locus, consumed, labelDone := prefixMatch(buf, root, input)
	if consumed < len(input) || !labelDone {
		return node{}, false
	}

	if locus.isLeaf() {
		return locus, true
	}

	c := childrenOf(buf, locus)
	for c.Valid() {
		if n := c.Node(); n.isLeaf() && n.labelSize() == 0 {
			return n, true
		}
		c = c.Next()
	}

	return node{}, false
}

// descendingPath reconstructs the label of target by redescending
// from root without parent pointers: at each node it picks the child
// whose own first-child pointer is the greatest one not exceeding
// target's address. Because a sibling group's subtrees are laid out
// contiguously in sibling order (see builder.go), that child is exactly
// the one whose subtree target lies within — unless target is itself
// one of the children, which is checked for directly first.
//
// Ties on firstChild() must break toward the last such sibling, not the
// first: an empty-subtree leaf's firstChild() coincides with the start
// of the next sibling's subtree, so when that leaf is ordered before
// the sibling whose subtree actually contains target, only advancing
// past it lands on the right child.
func descendingPath(buf []byte, root, target node) []byte {
	var out []byte
	cur := root

	for !cur.equal(target) {
		c := childrenOf(buf, cur)

		var best node
		haveBest := false

		for c.Valid() {
			n := c.Node()

			if n.equal(target) {
				best, haveBest = n, true
				break
			}

			if n.firstChild() <= target.address() && (!haveBest || n.firstChild() >= best.firstChild()) {
				best, haveBest = n, true
			}

			c = c.Next()
		}

		cur = best
		out = append(out, cur.label()...)
	}

	return out
}

// completionCursor returns a cursor over the children of the node
// reached by fully consuming prefix, or the null cursor if no stored
// suggestion starts with prefix. When that node is itself a leaf (other
// than the empty trie's sentinel root), the cursor covers just that leaf.
func completionCursor(buf []byte, root node, prefix []byte) cursor {
	locus, consumed, _ := prefixMatch(buf, root, prefix)
	if consumed < len(prefix) {
		return cursor{}
	}
	if locus.isLeaf() && !locus.equal(root) {
		return cursor{buf: buf, cur: locus, end: skip(buf, locus.address()), valid: true}
	}
	return childrenOf(buf, locus)
}
