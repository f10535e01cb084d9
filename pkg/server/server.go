package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arnegard/ordtrie/pkg/codec"
	"github.com/arnegard/ordtrie/pkg/config"
	"github.com/arnegard/ordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for trie completions over stdin/stdout.
type Server struct {
	mu   sync.RWMutex
	trie *trie.Trie[uint64]
	path string
	cfg  *config.Config

	reader *bufio.Reader
	writer io.Writer
}

// NewServer creates a completion server backed by the trie loaded from
// path, with request limits taken from cfg.Server. path is kept so a
// later "reload" request can re-read it.
func NewServer(t *trie.Trie[uint64], path string, cfg *config.Config) *Server {
	return &Server{
		trie:   t,
		path:   path,
		cfg:    cfg,
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
}

// Start begins listening for msgpack-encoded IPC requests, handling one
// message at a time, until EOF. Successive requests are read off the same
// decoder, relying on msgpack's self-delimiting encoding to find each
// message's boundary without a length prefix.
func (s *Server) Start() error {
	log.Debug("starting trieserve")

	dec := msgpack.NewDecoder(s.reader)

	for {
		var msg struct {
			ID     string  `msgpack:"id"`
			Prefix *string `msgpack:"p"`
			Limit  int     `msgpack:"l"`
			Action *string `msgpack:"action"`
		}
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("reading request: %v", err)
			return err
		}

		switch {
		case msg.Prefix != nil:
			s.handleComplete(CompletionRequest{ID: msg.ID, Prefix: *msg.Prefix, Limit: msg.Limit})
		case msg.Action != nil:
			s.handleTrieRequest(TrieRequest{ID: msg.ID, Action: *msg.Action})
		default:
			s.sendError(msg.ID, "request has neither 'p' nor 'action'", 400, nil)
		}
	}
}

func (s *Server) handleComplete(req CompletionRequest) {
	if req.Prefix == "" {
		s.sendError(req.ID, "missing prefix", 400, nil)
		return
	}

	limits := s.cfg.Server
	if len(req.Prefix) < limits.MinPrefix || len(req.Prefix) > limits.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix length must be between %d and %d", limits.MinPrefix, limits.MaxPrefix), 400, nil)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}

	s.mu.RLock()
	t := s.trie
	s.mu.RUnlock()

	start := time.Now()
	it := t.Complete(req.Prefix)

	suggestions := make([]CompletionSuggestion, 0, limit)
	for it.Valid() && len(suggestions) < limit {
		c := it.Completion()
		suggestions = append(suggestions, CompletionSuggestion{Word: c.Suggestion, Score: c.Score})
		it.Next()
	}
	elapsed := time.Since(start)

	s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleTrieRequest(req TrieRequest) {
	switch req.Action {
	case "info":
		s.mu.RLock()
		t := s.trie
		s.mu.RUnlock()

		trieBytes, scoreBytes := t.Size()
		s.send(TrieResponse{
			ID:         req.ID,
			Status:     "ok",
			Path:       s.path,
			Empty:      t.Empty(),
			TrieBytes:  trieBytes,
			ScoreBytes: scoreBytes,
		})
	case "reload":
		reloaded, err := trie.ReadFile(codec.Uint64(), s.path)
		if err != nil {
			s.send(TrieResponse{ID: req.ID, Status: "error", Error: err.Error(), Path: s.path})
			return
		}

		s.mu.Lock()
		s.trie = reloaded
		s.mu.Unlock()

		trieBytes, scoreBytes := reloaded.Size()
		s.send(TrieResponse{
			ID:         req.ID,
			Status:     "ok",
			Path:       s.path,
			Empty:      reloaded.Empty(),
			TrieBytes:  trieBytes,
			ScoreBytes: scoreBytes,
		})
	default:
		s.send(TrieResponse{ID: req.ID, Status: "error", Error: fmt.Sprintf("unknown action %q", req.Action)})
	}
}

func (s *Server) send(v any) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		log.Errorf("marshaling response: %v", err)
		return
	}
	if _, err := s.writer.Write(data); err != nil {
		log.Errorf("writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int, cause error) {
	if cause != nil {
		log.Errorf("%s: %v", message, cause)
	}
	s.send(CompletionErrorMsg{ID: id, Error: message, Code: code})
}
