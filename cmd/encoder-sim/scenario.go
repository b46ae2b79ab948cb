package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Scenario is a YAML script of shell-quoted commands, e.g.
//
//	board: sim
//	phase_ms: 8
//	steps:
//	  - cw 25
//	  - ccw 3
//	  - press 120
//	  - wait 50
//	  - say "half way"
type Scenario struct {
	Board   string   `yaml:"board"`
	PhaseMs int      `yaml:"phase_ms"` // hold per quadrature phase; must exceed the settle window
	Steps   []string `yaml:"steps"`
}

type Op string

const (
	OpCW    Op = "cw"
	OpCCW   Op = "ccw"
	OpPress Op = "press"
	OpWait  Op = "wait"
	OpSay   Op = "say"
)

type Command struct {
	Op   Op
	N    int    // steps for cw/ccw, milliseconds for press/wait
	Text string // say
}

const defaultPhaseMs = 8

// ParseScenario decodes YAML and tokenizes every step.
// Unknown fields are rejected via KnownFields(true).
func ParseScenario(r io.Reader) (Scenario, []Command, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Scenario{}, nil, err
	}
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Board == "" {
		sc.Board = "sim"
	}
	if sc.PhaseMs <= 0 {
		sc.PhaseMs = defaultPhaseMs
	}

	cmds := make([]Command, 0, len(sc.Steps))
	for i, line := range sc.Steps {
		c, err := parseCommand(line)
		if err != nil {
			return Scenario{}, nil, fmt.Errorf("step %d %q: %w", i+1, line, err)
		}
		cmds = append(cmds, c)
	}
	return sc, cmds, nil
}

func parseCommand(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, err
	}
	if len(words) == 0 {
		return Command{}, errors.New("empty step")
	}
	op := Op(words[0])
	switch op {
	case OpSay:
		if len(words) != 2 {
			return Command{}, errors.New("say takes one (quoted) argument")
		}
		return Command{Op: op, Text: words[1]}, nil
	case OpCW, OpCCW, OpPress, OpWait:
		if len(words) != 2 {
			return Command{}, fmt.Errorf("%s takes one number", op)
		}
		n, err := strconv.Atoi(words[1])
		if err != nil || n < 0 {
			return Command{}, fmt.Errorf("%s: bad count %q", op, words[1])
		}
		return Command{Op: op, N: n}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", words[0])
	}
}
