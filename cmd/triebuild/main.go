// Copyright 2025 The ordtrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license.

/*
triebuild reads a line-oriented suggestion/score file and writes a
packed .trie container file readable by pkg/trie.ReadFile.

# Usage

	triebuild -in suggestions.tsv -out suggestions.trie

Input is TSV, one suggestion per line, already sorted in increasing
lexicographic order:

	suggestion<TAB>score

Score is parsed as a uint64; pass -comparator less to invert the
default "greater score ranks first" ordering.

Pass -ranked for input that is one suggestion per line with no score
column at all, already in priority order; scores are then assigned by
position (comparator is forced to "less", since a lower line number
means higher priority).
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/arnegard/ordtrie/internal/logger"
	"github.com/arnegard/ordtrie/internal/utils"
	"github.com/arnegard/ordtrie/pkg/codec"
	"github.com/arnegard/ordtrie/pkg/config"
	"github.com/arnegard/ordtrie/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "triebuild"
	gh      = "https://github.com/arnegard/ordtrie"
)

func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	inPath := flag.String("in", "", "TSV file of sorted suggestion<TAB>score lines")
	outPath := flag.String("out", "suggestions.trie", "Output .trie container path")
	comparator := flag.String("comparator", defaultConfig.Build.DefaultComparator, "Score ordering: greater or less")
	ranked := flag.Bool("ranked", false, "Input is one suggestion per line, already in priority order, with no score column")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *showVersion {
		printVersionBanner()
		os.Exit(0)
	}

	log.SetLevel(log.WarnLevel)
	if *debugMode {
		log.SetLevel(log.DebugLevel)
	}

	buildLog := logger.Default("triebuild")

	if *inPath == "" {
		buildLog.Fatal("missing -in")
	}

	activeComparator := *comparator
	if *ranked {
		activeComparator = "less"
	}

	var better func(a, b uint64) bool
	switch activeComparator {
	case "greater":
		better = func(a, b uint64) bool { return a > b }
	case "less":
		better = func(a, b uint64) bool { return a < b }
	default:
		buildLog.Fatalf("unknown -comparator %q, want greater or less", *comparator)
	}

	var suggestions []string
	var scores []uint64
	var err error

	if *ranked {
		suggestions, err = readLines(*inPath)
		if err != nil {
			buildLog.Fatalf("reading %s: %v", *inPath, err)
		}
		scores = utils.PositionRanks(len(suggestions))

		// Ranks follow line order; trie.New needs lexicographic order, so
		// sort the (suggestion, rank) pairs together.
		idx := make([]int, len(suggestions))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return suggestions[idx[a]] < suggestions[idx[b]] })
		sortedSuggestions := make([]string, len(idx))
		sortedScores := make([]uint64, len(idx))
		for i, j := range idx {
			sortedSuggestions[i], sortedScores[i] = suggestions[j], scores[j]
		}
		suggestions, scores = sortedSuggestions, sortedScores
	} else {
		suggestions, scores, err = readTSV(*inPath)
		if err != nil {
			buildLog.Fatalf("reading %s: %v", *inPath, err)
		}
	}
	buildLog.Debugf("read %d suggestions from %s", len(suggestions), *inPath)

	distinct := countDistinct(scores)
	buildLog.Infof("scores: %d total, %d distinct", len(scores), distinct)
	if distinct < defaultConfig.Build.ScoreTableThreshold {
		buildLog.Warnf("only %d distinct score(s), below score_table_threshold=%d",
			distinct, defaultConfig.Build.ScoreTableThreshold)
	}

	t, err := trie.New(codec.Uint64(), suggestions, scores, better)
	if err != nil {
		buildLog.Fatalf("building trie: %v", err)
	}

	if err := t.Write(*outPath); err != nil {
		buildLog.Fatalf("writing %s: %v", *outPath, err)
	}

	buildLog.Infof("wrote %s", *outPath)
}

func readTSV(path string) ([]string, []uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var suggestions []string
	var scores []uint64

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		idx := strings.LastIndex(line, "\t")
		if idx < 0 {
			return nil, nil, fmt.Errorf("malformed line %q: expected suggestion<TAB>score", line)
		}

		score, err := strconv.ParseUint(line[idx+1:], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("malformed score in line %q: %w", line, err)
		}

		suggestions = append(suggestions, line[:idx])
		scores = append(scores, score)
	}

	return suggestions, scores, scanner.Err()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func countDistinct(scores []uint64) int {
	seen := make(map[uint64]struct{}, len(scores))
	for _, s := range scores {
		seen[s] = struct{}{}
	}
	return len(seen)
}

func printVersionBanner() {
	out := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	out.SetStyles(styles)

	out.Print("")
	out.Print("[ triebuild ] Packs ranked suggestions into a .trie file")
	out.Print("", "version", Version)
	out.Print("")
	out.Print("use -h or --help to see available options")
	out.Print("Github Repo", "gh", gh)
}
