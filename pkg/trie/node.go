package trie

import "github.com/arnegard/ordtrie/internal/varint"

// node is a read-only view over a single encoded trie node. It borrows
// from a shared byte buffer and must not outlive it. Node identity,
// equality and ordering are all defined by pos, the byte offset of the
// node's header within that buffer.
//
// Leaves never carry an in-node payload: every score is recovered by
// indirection through the trie's score table (see store.go / trie.go),
// so a node's "rank" is always either a sibling-delta-decoded absolute
// rank or, at a leaf, the byte offset of its score within that table.
// This keeps the node encoding itself free of any score-type parameter.
type node struct {
	buf           []byte
	pos           int
	rank          uint64
	firstChildPos int
}

// newNode decodes the node at pos, given the cumulative rank of its
// sibling group's base and the base offset its own offset field is
// relative to.
func newNode(buf []byte, pos int, baseRank uint64, childrenBase int) node {
	h := buf[pos]

	offTag := headerOffsetTag(h)
	offVal := varint.DecodeOffset(buf[pos+1:], offTag)

	rankStart := pos + 1 + varint.OffsetCodewordSize(offTag) + headerLabelSize(h)
	rankTag := headerRankTag(h)
	rankVal := varint.DecodeRank(buf[rankStart:], rankTag)

	return node{
		buf:           buf,
		pos:           pos,
		rank:          baseRank + rankVal,
		firstChildPos: childrenBase + int(offVal),
	}
}

func (n node) header() byte   { return n.buf[n.pos] }
func (n node) isLeaf() bool   { return headerIsLeaf(n.header()) }
func (n node) labelSize() int { return headerLabelSize(n.header()) }

func (n node) labelBegin() int {
	tag := headerOffsetTag(n.header())
	return n.pos + 1 + varint.OffsetCodewordSize(tag)
}

func (n node) label() []byte {
	b := n.labelBegin()
	return n.buf[b : b+n.labelSize()]
}

// Rank returns the node's absolute rank: for an internal node this is
// the priority key used by the best-first iterator; for a leaf it
// doubles as the byte offset into the score table.
func (n node) Rank() uint64 { return n.rank }

// firstChild returns the byte offset of the first byte of this node's
// first child's sibling group. Undefined for leaf nodes.
func (n node) firstChild() int { return n.firstChildPos }

func (n node) address() int      { return n.pos }
func (n node) equal(o node) bool { return n.pos == o.pos }
func (n node) less(o node) bool  { return n.pos < o.pos }

// rankAddr returns the offset of the rank varint field.
func (n node) rankAddr() int {
	return n.labelBegin() + n.labelSize()
}

// skip returns the offset one past node pos's entire encoding. Leaves
// carry no payload, so this is just past the rank field.
func skip(buf []byte, pos int) int {
	n := node{buf: buf, pos: pos}
	tag := headerRankTag(n.header())
	start := n.rankAddr()
	rest := varint.SkipRank(buf[start:], tag)
	return len(buf) - len(rest)
}
