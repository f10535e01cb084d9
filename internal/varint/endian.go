// Package varint implements the two closed-set variable-length integer
// codecs used to pack trie node fields: OffsetEncoder for child-subtree
// byte distances and RankEncoder for rank deltas.
//
// Both codecs write multi-byte words using the host's native byte order,
// matching the on-disk format's refusal to support cross-endian loads.
package varint

import (
	"encoding/binary"
	"unsafe"
)

// Endianness identifies the byte order multi-byte fields were written
// with. It is persisted verbatim in the container file header.
type Endianness uint8

const (
	Little Endianness = 1
	Big    Endianness = 2
)

// Native is the host's byte order, detected once at package init.
var Native Endianness

// Order is the binary.ByteOrder matching Native. Every multi-byte field
// in the container format — file header integers, rank/offset codewords, and
// fixed-width score payloads alike — is written with this order, which
// is why the file header records Native and loading rejects a mismatch.
var Order binary.ByteOrder

// order is a package-local alias kept for brevity in this file's own
// codecs.
var order binary.ByteOrder

func init() {
	var probe uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&probe))

	if b[0] == 1 {
		Native = Little
		order = binary.LittleEndian
	} else {
		Native = Big
		order = binary.BigEndian
	}

	Order = order
}
