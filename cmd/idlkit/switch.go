package main

import (
	"fmt"
	"os"
	"strings"
)

// tristate is the value of an auto|on|off flag.
type tristate uint8

const (
	switchAuto tristate = iota
	switchOn
	switchOff
)

func parseTristate(flag, value string) (tristate, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// resolve returns fallback for auto.
func (t tristate) resolve(fallback bool) bool {
	switch t {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return fallback
}

func resolveColor(value string, tty, noColorEnv bool) (bool, error) {
	mode, err := parseTristate("color", value)
	if err != nil {
		return false, err
	}
	return mode.resolve(tty && !noColorEnv), nil
}

// shouldUseTUI: auto means an interactive stdout and no --quiet.
func shouldUseTUI(mode tristate, quiet bool) bool {
	return mode.resolve(!quiet && isTerminal(os.Stdout))
}
