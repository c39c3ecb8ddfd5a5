package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-such-config.yaml")
}

func TestFormatCommandWritesReflowedText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.txt")
	out := filepath.Join(dir, "formatted.txt")
	if err := os.WriteFile(in, []byte("こんにちは。今日は晴れです。ところで明日の予定ですが。"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "--config", missingConfig(t), "format", in, "--out", out); err != nil {
		t.Fatalf("format: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "こんにちは。 今日は晴れです。\n\nところで明日の予定ですが。\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestFormatCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.txt")
	out := filepath.Join(dir, "result.json")
	if err := os.WriteFile(in, []byte("今日は晴れです"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "--config", missingConfig(t), "format", in, "--json", "--out", out); err != nil {
		t.Fatalf("format --json: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var res struct {
		Success bool   `json:"success"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", data, err)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if res.Result != "今日は晴れです。" {
		t.Errorf("result = %q, want %q", res.Result, "今日は晴れです。")
	}
}

func TestFormatCommandUsesConfigTables(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "reflow:\n  filler_words:\n    - なんというか\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}

	in := filepath.Join(dir, "raw.txt")
	out := filepath.Join(dir, "formatted.txt")
	if err := os.WriteFile(in, []byte("なんというか 今日は晴れです。"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "--config", cfgPath, "format", in, "--out", out); err != nil {
		t.Fatalf("format: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "今日は晴れです。" {
		t.Errorf("output = %q, want filler removed", got)
	}
}

func TestDoctorCommandRequiresConfig(t *testing.T) {
	if _, err := runCommand(t, "--config", missingConfig(t), "doctor"); err == nil {
		t.Fatal("doctor should fail without a config file")
	}
}

func TestRunCommandRequiresConfig(t *testing.T) {
	if _, err := runCommand(t, "--config", missingConfig(t), "run"); err == nil {
		t.Fatal("run should fail without a config file")
	}
}
