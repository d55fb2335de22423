package main

import (
	"strings"
	"testing"

	"github.com/cwbudde/sgafit/internal/store"
)

func testRunConfigDefaults() store.RunConfig {
	return store.RunConfig{
		PopSize:     30,
		ChromLength: 10,
		MaxGen:      20,
		PCross:      0.6,
		PMutation:   0.033,
		Seed:        42,
		Objective:   "power",
		Crossover:   "single",
	}
}

func TestPromptConfig(t *testing.T) {
	cfg := testRunConfigDefaults()
	in := strings.NewReader("50\n\n100\n0.8\n0.01\n")
	var out strings.Builder

	if err := promptConfig(in, &out, &cfg); err != nil {
		t.Fatalf("promptConfig failed: %v", err)
	}

	if cfg.PopSize != 50 || cfg.ChromLength != 10 || cfg.MaxGen != 100 {
		t.Errorf("Unexpected integer parameters: %+v", cfg)
	}
	if cfg.PCross != 0.8 || cfg.PMutation != 0.01 {
		t.Errorf("Unexpected probabilities: pcross=%g pmutation=%g", cfg.PCross, cfg.PMutation)
	}
	if cfg.Seed != 42 || cfg.Objective != "power" {
		t.Errorf("Prompt should not touch other fields: %+v", cfg)
	}

	prompts := out.String()
	for _, want := range []string{
		"Enter population size       [30]: ",
		"Enter chromosome length     [10]: ",
		"Enter max generations       [20]: ",
		"Enter crossover probability [0.6]: ",
		"Enter mutation probability  [0.033]: ",
	} {
		if !strings.Contains(prompts, want) {
			t.Errorf("Missing prompt %q in %q", want, prompts)
		}
	}
}

func TestPromptConfig_EndOfInputKeepsDefaults(t *testing.T) {
	cfg := testRunConfigDefaults()
	var out strings.Builder

	if err := promptConfig(strings.NewReader("40\n"), &out, &cfg); err != nil {
		t.Fatalf("promptConfig failed: %v", err)
	}
	want := testRunConfigDefaults()
	want.PopSize = 40
	if cfg != want {
		t.Errorf("Expected %+v, got %+v", want, cfg)
	}
}

func TestPromptConfig_InvalidNumber(t *testing.T) {
	cfg := testRunConfigDefaults()
	var out strings.Builder

	err := promptConfig(strings.NewReader("thirty\n"), &out, &cfg)
	if err == nil {
		t.Fatal("Expected error for non-numeric population size")
	}
	if !strings.Contains(err.Error(), "population size") {
		t.Errorf("Error should name the parameter, got %v", err)
	}
	if cfg.PopSize != 30 {
		t.Errorf("Population size should be unchanged, got %d", cfg.PopSize)
	}
}
