// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/term"
	"github.com/hev6502/hev6502/host"
	"github.com/pkg/errors"
)

var (
	load  string
	org   string
	run   bool
	stats bool
)

func init() {
	flag.StringVar(&load, "load", "", "load a raw binary file into memory")
	flag.StringVar(&org, "org", "$1000", "address at which to load the binary file")
	flag.BoolVar(&run, "run", false, "run the loaded binary file")
	flag.BoolVar(&stats, "statsview", false, "serve runtime statistics on "+statsviewAddr)
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: hev6502 [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if stats {
		launchStatsview(os.Stdout)
	}

	h := host.New()
	h.SetOutput(os.Stdout)

	// Load a binary image if requested.
	if load != "" {
		addr, err := parseOrg(org)
		if err != nil {
			exitOnError(err)
		}
		if err := h.LoadFile(load, addr); err != nil {
			exitOnError(err)
		}
		if run {
			exitOnQuit(h.RunCommands(strings.NewReader("run"), os.Stdout, false))
		}
	}

	// Run commands and Lua scripts contained in command-line files.
	for _, filename := range flag.Args() {
		if strings.EqualFold(filepath.Ext(filename), ".lua") {
			exitOnQuit(h.RunScript(filename))
			continue
		}

		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		err = h.RunCommands(file, os.Stdout, false)
		file.Close()
		exitOnQuit(err)
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively when attached to a terminal.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	exitOnQuit(h.RunCommands(os.Stdin, os.Stdout, interactive))
}

// Parse the load origin. Hexadecimal is assumed.
func parseOrg(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, errors.Errorf("invalid load address '%s'", org)
	}
	return uint16(v), nil
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnQuit(err error) {
	switch {
	case err == host.ErrQuit:
		os.Exit(0)
	case err != nil:
		exitOnError(err)
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
