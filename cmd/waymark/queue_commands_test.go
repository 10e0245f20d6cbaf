package main

import (
	"testing"
)

func TestLogAndQueueList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"log", "41.8781", "-87.6298", "--note", "office"}, env.configPath)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	requireContains(t, out, "queued")

	out, _, err = runCLI(t, []string{"queue", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "41.87810")
	requireContains(t, out, "pending")
}

func TestLogRejectsInvalidCoordinates(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"log", "91.0", "0.0"}, env.configPath)
	if err == nil {
		t.Fatal("expected out-of-range latitude to fail")
	}

	out, _, err := runCLI(t, []string{"queue", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	requireContains(t, out, "Queue is empty")
}

func TestQueueStatusAndClear(t *testing.T) {
	env := setupCLITestEnv(t)

	for i := 0; i < 3; i++ {
		if _, _, err := runCLI(t, []string{"log", "40.0", "-74.0"}, env.configPath); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"queue", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	requireContains(t, out, "pending")
	requireContains(t, out, "3")

	out, _, err = runCLI(t, []string{"queue", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, out, "Cleared 3 locations")
}

func TestQueueListStatusFilterRejectsUnknown(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"queue", "list", "--status", "bogus"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestHealthCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"log", "40.0", "-74.0"}, env.configPath); err != nil {
		t.Fatalf("log: %v", err)
	}

	out, _, err := runCLI(t, []string{"health"}, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Integrity")
	requireContains(t, out, "yes")
}
