package main

import (
	"strings"
	"testing"
)

func TestSettingsSetAndGet(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"settings", "set", "tracking.enabled", "true", "--type", "bool"}, env.configPath); err != nil {
		t.Fatalf("settings set: %v", err)
	}

	out, _, err := runCLI(t, []string{"settings", "get", "tracking.enabled", "--type", "bool"}, env.configPath)
	if err != nil {
		t.Fatalf("settings get: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Fatalf("expected true, got %q", out)
	}

	out, _, err = runCLI(t, []string{"settings", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("settings list: %v", err)
	}
	requireContains(t, out, "tracking.enabled")
}

func TestSettingsGetAbsentReturnsDefault(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"settings", "get", "no.such.key", "--type", "int"}, env.configPath)
	if err != nil {
		t.Fatalf("settings get: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Fatalf("expected default 0, got %q", out)
	}
}

func TestSettingsRejectsUnknownType(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"settings", "set", "key", "value", "--type", "duration"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown type to fail")
	}
}
