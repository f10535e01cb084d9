package trie

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bad.trie")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadStoreBadMagic(t *testing.T) {
	path := writeTestFile(t, []byte("NOT_A_TRIE_FILE\n"))
	if _, err := readStore(path, "FIXED_INT_uint64"); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestStoreWriteReadEmptyScoreTable(t *testing.T) {
	st := &store{trieBytes: []byte{sentinelEmptyHeader}}
	path := filepath.Join(t.TempDir(), "empty.trie")

	if err := st.write(path, "FIXED_INT_uint64"); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := readStore(path, "FIXED_INT_uint64")
	if err != nil {
		t.Fatalf("readStore: %v", err)
	}
	if len(loaded.scoreBytes) != 0 {
		t.Errorf("scoreBytes = %v, want empty", loaded.scoreBytes)
	}
	if len(loaded.trieBytes) != 1 || loaded.trieBytes[0] != sentinelEmptyHeader {
		t.Errorf("trieBytes = %v, want sentinel", loaded.trieBytes)
	}
}

func TestStoreWriteReadWithScoreTable(t *testing.T) {
	st := &store{
		trieBytes:  []byte{0x01, 0x02, 0x03},
		scoreBytes: []byte{0xAA, 0xBB, 0xCC, 0xDD},
	}
	path := filepath.Join(t.TempDir(), "withscore.trie")

	if err := st.write(path, "FIXED_INT_uint32"); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := readStore(path, "FIXED_INT_uint32")
	if err != nil {
		t.Fatalf("readStore: %v", err)
	}

	if string(loaded.trieBytes) != string(st.trieBytes) {
		t.Errorf("trieBytes = %v, want %v", loaded.trieBytes, st.trieBytes)
	}
	if string(loaded.scoreBytes) != string(st.scoreBytes) {
		t.Errorf("scoreBytes = %v, want %v", loaded.scoreBytes, st.scoreBytes)
	}
}

func TestReadStoreTruncated(t *testing.T) {
	st := &store{trieBytes: []byte{0x01, 0x02, 0x03, 0x04}}
	path := filepath.Join(t.TempDir(), "trunc.trie")
	if err := st.write(path, "FIXED_INT_uint64"); err != nil {
		t.Fatalf("write: %v", err)
	}

	full, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(path, full[:len(full)-2], 0o644); err != nil {
		t.Fatalf("WriteFile truncated: %v", err)
	}

	if _, err := readStore(path, "FIXED_INT_uint64"); err != ErrTruncatedSegment {
		t.Fatalf("err = %v, want ErrTruncatedSegment", err)
	}
}
