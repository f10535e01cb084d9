package trie

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnegard/ordtrie/internal/varint"
)

const (
	magicPrefix = "ORDERED_TRIE_"

	versionMajor uint32 = 1
	versionMinor uint32 = 0
	versionPatch uint32 = 0
)

// store owns the two byte buffers backing a trie: the packed node
// stream and the optional score table. Once built or loaded, neither
// buffer is ever mutated; cursors and iterators borrow directly from
// them, which is safe because nothing in this package ever appends to
// or reslices a store's buffers after construction.
type store struct {
	trieBytes  []byte
	scoreBytes []byte
}

type segment struct {
	offset uint64
	length uint64
}

func writeUint32(w *bufio.Writer, v uint32) error {
	var b [4]byte
	varint.Order.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint64(w *bufio.Writer, v uint64) error {
	var b [8]byte
	varint.Order.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return varint.Order.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return varint.Order.Uint64(b[:]), nil
}

func readSegment(r io.Reader) (segment, error) {
	offset, err := readUint64(r)
	if err != nil {
		return segment{}, err
	}

	length, err := readUint64(r)
	if err != nil {
		return segment{}, err
	}

	return segment{offset: offset, length: length}, nil
}

// write emits a complete container file to path: magic + score format
// id, endianness, version, the two segment descriptors, then the
// score-table bytes (if any) followed by the trie bytes.
func (s *store) write(path string, formatID string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ordtrie: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	headerLen := len(magicPrefix) + len(formatID) + 1 + 1 + 12 + 32

	var scoreOffset uint64
	if len(s.scoreBytes) > 0 {
		scoreOffset = uint64(headerLen)
	}
	trieOffset := uint64(headerLen) + uint64(len(s.scoreBytes))

	if _, err := w.WriteString(magicPrefix); err != nil {
		return err
	}
	if _, err := w.WriteString(formatID); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.WriteByte(byte(varint.Native)); err != nil {
		return err
	}

	for _, v := range [3]uint32{versionMajor, versionMinor, versionPatch} {
		if err := writeUint32(w, v); err != nil {
			return err
		}
	}

	segments := [2]segment{
		{offset: scoreOffset, length: uint64(len(s.scoreBytes))},
		{offset: trieOffset, length: uint64(len(s.trieBytes))},
	}
	for _, sg := range segments {
		if err := writeUint64(w, sg.offset); err != nil {
			return err
		}
		if err := writeUint64(w, sg.length); err != nil {
			return err
		}
	}

	if len(s.scoreBytes) > 0 {
		if _, err := w.Write(s.scoreBytes); err != nil {
			return err
		}
	}
	if _, err := w.Write(s.trieBytes); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("ordtrie: write %s: %w", path, err)
	}
	return nil
}

// readStore loads a container file written by write, verifying that it
// was produced by the same score codec (via formatID) and the same
// host byte order, and that it is a container this package's major
// version can read.
func readStore(path string, formatID string) (*store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ordtrie: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if !strings.HasPrefix(line, magicPrefix) {
		return nil, ErrBadMagic
	}
	if strings.TrimSuffix(strings.TrimPrefix(line, magicPrefix), "\n") != formatID {
		return nil, ErrUnknownScoreType
	}

	endianByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if varint.Endianness(endianByte) != varint.Native {
		return nil, ErrEndianMismatch
	}

	major, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if _, err := readUint32(r); err != nil { // minor, unused beyond major gating
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if _, err := readUint32(r); err != nil { // patch
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if major != versionMajor {
		return nil, ErrIncompatibleVersion
	}

	scoreSeg, err := readSegment(r)
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	trieSeg, err := readSegment(r)
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read header of %s: %w", path, err)
	}
	if trieSeg.offset != 0 && trieSeg.length == 0 {
		return nil, ErrTruncatedSegment
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ordtrie: read payload of %s: %w", path, err)
	}

	pos := 0
	var scoreBytes, trieBytes []byte

	if scoreSeg.length > 0 {
		end := pos + int(scoreSeg.length)
		if end > len(payload) {
			return nil, ErrTruncatedSegment
		}
		scoreBytes = payload[pos:end]
		pos = end
	}

	end := pos + int(trieSeg.length)
	if end > len(payload) {
		return nil, ErrTruncatedSegment
	}
	trieBytes = payload[pos:end]

	return &store{trieBytes: trieBytes, scoreBytes: scoreBytes}, nil
}
