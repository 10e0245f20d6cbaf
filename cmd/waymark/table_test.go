package main

import (
	"strings"
	"testing"
)

func TestRenderColumnsPadsShortRows(t *testing.T) {
	columns := []tableColumn{{name: "ID", numeric: true}, {name: "Provider"}}
	out := renderColumns(columns, [][]string{
		{"7", "gps"},
		{"12"},
	})
	requireContains(t, out, "ID")
	requireContains(t, out, "Provider")
	requireContains(t, out, "gps")
	requireContains(t, out, "12")

	if renderColumns(nil, nil) != "" {
		t.Fatal("expected empty output for no columns")
	}
}

func TestRenderColumnsRightAlignsNumeric(t *testing.T) {
	columns := []tableColumn{{name: "Count", numeric: true}}
	out := renderColumns(columns, [][]string{{"5"}, {"12345"}})

	// The short value lands flush against the right border, padded on the left.
	var shortLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "5") && !strings.Contains(line, "12345") {
			shortLine = line
		}
	}
	if shortLine == "" {
		t.Fatalf("missing row in output:\n%s", out)
	}
	if !strings.Contains(shortLine, "    5") {
		t.Fatalf("expected right-aligned value, got %q", shortLine)
	}
}

func TestRenderPairs(t *testing.T) {
	out := renderPairs("Check", "Result", [][2]string{
		{"Integrity", "yes"},
		{"Rows", "3"},
	})
	requireContains(t, out, "Check")
	requireContains(t, out, "Integrity")
	requireContains(t, out, "yes")
	requireContains(t, out, "Rows")
}
