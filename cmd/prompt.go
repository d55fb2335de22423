package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/sgafit/internal/store"
)

// promptConfig asks for the five SGA parameters on in. An empty answer, or
// end of input, keeps the current value.
func promptConfig(in io.Reader, out io.Writer, cfg *store.RunConfig) error {
	scanner := bufio.NewScanner(in)

	ask := func(label, current string, set func(string) error) error {
		fmt.Fprintf(out, "Enter %s [%s]: ", label, current)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return nil
		}
		if err := set(text); err != nil {
			return fmt.Errorf("invalid %s %q: %w", strings.TrimSpace(label), text, err)
		}
		return nil
	}
	intField := func(dst *int) func(string) error {
		return func(s string) error {
			v, err := strconv.Atoi(s)
			if err == nil {
				*dst = v
			}
			return err
		}
	}
	floatField := func(dst *float64) func(string) error {
		return func(s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err == nil {
				*dst = v
			}
			return err
		}
	}

	steps := []struct {
		label   string
		current string
		set     func(string) error
	}{
		{"population size      ", strconv.Itoa(cfg.PopSize), intField(&cfg.PopSize)},
		{"chromosome length    ", strconv.Itoa(cfg.ChromLength), intField(&cfg.ChromLength)},
		{"max generations      ", strconv.Itoa(cfg.MaxGen), intField(&cfg.MaxGen)},
		{"crossover probability", strconv.FormatFloat(cfg.PCross, 'g', -1, 64), floatField(&cfg.PCross)},
		{"mutation probability ", strconv.FormatFloat(cfg.PMutation, 'g', -1, 64), floatField(&cfg.PMutation)},
	}
	for _, step := range steps {
		if err := ask(step.label, step.current, step.set); err != nil {
			return err
		}
	}
	return nil
}
