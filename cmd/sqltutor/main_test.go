// Package main provides tests for the sqltutor CLI.
package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqltutor/internal/cli"
	"github.com/leapstack-labs/sqltutor/internal/history"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "sqltutor") {
		t.Errorf("version output should contain 'sqltutor', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"serve", "query", "lessons", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestQueryCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"query", "SELECT COUNT(*) AS n FROM students", "--format", "csv"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("query command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "n") || !strings.Contains(output, "8") {
		t.Errorf("query output should contain the student count, got: %s", output)
	}
}

func TestLessonsCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"lessons"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("lessons command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "selecting-data") {
		t.Errorf("lessons output should list bundled lessons, got: %s", output)
	}
}

func TestHistoryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := history.Open(path, nil)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	store.RecordQuery(context.Background(), "SELECT COUNT(*) FROM students", true)
	if err := store.Close(); err != nil {
		t.Fatalf("close history store: %v", err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"history", "--history", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("history command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "SELECT COUNT(*) FROM students") {
		t.Errorf("history output should contain the recorded query, got: %s", output)
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonsense"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown command")
	}
}
