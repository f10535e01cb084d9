// Copyright 2025 The ordtrie Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license.

/*
trieserve loads a packed .trie container file and answers msgpack IPC
completion requests over stdin/stdout until stdin closes.

# Usage

	trieserve -trie suggestions.trie

Request limits (max suggestions per response, allowed prefix length
range) come from the [server] section of config.toml; see pkg/config.
See pkg/server for the wire format.
*/
package main

import (
	"os"

	"github.com/arnegard/ordtrie/internal/logger"
	"github.com/arnegard/ordtrie/pkg/codec"
	"github.com/arnegard/ordtrie/pkg/config"
	"github.com/arnegard/ordtrie/pkg/server"
	"github.com/arnegard/ordtrie/pkg/trie"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"flag"
)

const (
	Version = "0.1.0"
	AppName = "trieserve"
	gh      = "https://github.com/arnegard/ordtrie"
)

func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	triePath := flag.String("trie", "", "Path to a .trie container file written by triebuild")
	configPath := flag.String("config", "", "Path to config.toml (defaults to the standard config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *showVersion {
		printVersionBanner()
		os.Exit(0)
	}

	log.SetLevel(log.WarnLevel)

	var serveLog *log.Logger
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		serveLog = logger.NewWithConfig("trieserve", log.DebugLevel, true, true, log.TextFormatter)
	} else {
		serveLog = logger.Default("trieserve")
	}

	if *triePath == "" {
		serveLog.Fatal("missing -trie")
	}

	cfg, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		serveLog.Fatalf("loading config: %v", err)
	}
	if loadedFrom != "" {
		serveLog.Debugf("using config from %s", loadedFrom)
	}
	serveLog.Debugf("server limits: max_limit=%d min_prefix=%d max_prefix=%d",
		cfg.Server.MaxLimit, cfg.Server.MinPrefix, cfg.Server.MaxPrefix)

	t, err := trie.ReadFile(codec.Uint64(), *triePath)
	if err != nil {
		serveLog.Fatalf("loading %s: %v", *triePath, err)
	}

	trieBytes, scoreBytes := t.Size()
	serveLog.Infof("loaded %s (%d trie bytes, %d score bytes)", *triePath, trieBytes, scoreBytes)

	srv := server.NewServer(t, *triePath, cfg)
	if err := srv.Start(); err != nil {
		serveLog.Fatalf("serving: %v", err)
	}
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
	out.Print("[ trieserve ] Serves ranked prefix completions over msgpack IPC")
	out.Print("", "version", Version)
	out.Print("")
	out.Print("use -h or --help to see available options")
	out.Print("Github Repo", "gh", gh)
}
