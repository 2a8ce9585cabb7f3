package pack

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/devtools/domain/config"
	"github.com/felixgeelhaar/devtools/domain/failure"
	domainpack "github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func loadOne(t *testing.T, c config.CommandToolConfig, env domainpack.Env) tool.Tool {
	t.Helper()

	packs, err := NewCommandLoader([]config.CommandToolConfig{c}, env).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(packs) != 1 || len(packs[0].Tools) != 1 {
		t.Fatalf("Load() returned %d packs", len(packs))
	}
	return packs[0].Tools[0]
}

func TestCommandLoader_Empty(t *testing.T) {
	t.Parallel()

	packs, err := NewCommandLoader(nil, domainpack.Env{}).Load(context.Background())
	if err != nil || packs != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", packs, err)
	}
}

func TestCommandLoader_Load(t *testing.T) {
	t.Parallel()

	loader := NewCommandLoader([]config.CommandToolConfig{
		{Name: "lint", Description: "Run the linter", Version: "2.0.0", Author: "Team", Command: "golangci-lint"},
		{Name: "list", Command: "ls", Args: []string{"-la"}},
	}, domainpack.Env{})

	if loader.Name() == "" {
		t.Error("Name() should not be empty")
	}

	packs, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(packs) != 1 || packs[0].Name != CommandPackName {
		t.Fatalf("unexpected packs: %+v", packs)
	}
	if diff := cmp.Diff([]string{"lint", "list"}, packs[0].ToolNames()); diff != "" {
		t.Errorf("ToolNames() mismatch (-want +got):\n%s", diff)
	}

	lint, _ := packs[0].GetTool("lint")
	if lint.Version() != "2.0.0" || lint.Author() != "Team" || lint.Description() != "Run the linter" {
		t.Errorf("metadata not carried over: %s %s %s", lint.Version(), lint.Author(), lint.Description())
	}

	list, _ := packs[0].GetTool("list")
	if list.Description() != "Run ls" {
		t.Errorf("default description = %q", list.Description())
	}

	var help bytes.Buffer
	tool.WriteHelp(&help, list)
	if !strings.Contains(help.String(), "Runs: ls -la") {
		t.Errorf("help = %q", help.String())
	}
}

func TestCommandLoader_InvalidDeclarations(t *testing.T) {
	t.Parallel()

	packs, err := NewCommandLoader([]config.CommandToolConfig{
		{Name: "bad name", Command: "true"},
		{Name: "good", Command: "true"},
		{Name: "empty"},
	}, domainpack.Env{}).Load(context.Background())

	if failure.KindOf(err) != failure.KindInvalidArgument {
		t.Errorf("error = %v, want invalid argument", err)
	}
	if len(packs) != 1 {
		t.Fatalf("valid declarations should still load, got %d packs", len(packs))
	}
	if diff := cmp.Diff([]string{"good"}, packs[0].ToolNames()); diff != "" {
		t.Errorf("ToolNames() mismatch (-want +got):\n%s", diff)
	}

	packs, err = NewCommandLoader([]config.CommandToolConfig{{Name: "-x", Command: "true"}}, domainpack.Env{}).
		Load(context.Background())
	if err == nil || packs != nil {
		t.Errorf("Load() = %v, %v; want nil and an error", packs, err)
	}
}

func TestCommandTool_Execute(t *testing.T) {
	requireShell(t)
	t.Parallel()

	var stdout bytes.Buffer
	greet := loadOne(t, config.CommandToolConfig{
		Name:    "greet",
		Command: "sh",
		Args:    []string{"-c", `echo "$GREETING $*"`, "sh"},
		Env:     map[string]string{"GREETING": "hello"},
	}, domainpack.Env{Stdout: &stdout})

	if err := greet.Execute(context.Background(), []string{"big", "world"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := stdout.String(); got != "hello big world\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestCommandTool_StdinAndDir(t *testing.T) {
	requireShell(t)
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	tl := loadOne(t, config.CommandToolConfig{
		Name:    "where",
		Command: "sh",
		Args:    []string{"-c", "pwd; cat"},
		Dir:     dir,
	}, domainpack.Env{Stdin: strings.NewReader("piped\n"), Stdout: &stdout})

	if err := tl.Execute(context.Background(), nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 || lines[1] != "piped" {
		t.Fatalf("stdout = %q", stdout.String())
	}
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(lines[0])
	if got != want {
		t.Errorf("working directory = %q, want %q", got, want)
	}
}

func TestCommandTool_Errors(t *testing.T) {
	requireShell(t)
	t.Parallel()

	notExecutable := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(notExecutable, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		cfg      config.CommandToolConfig
		wantKind failure.Kind
		wantMsg  string
	}{
		{
			name:     "non-zero exit",
			cfg:      config.CommandToolConfig{Name: "fail", Command: "sh", Args: []string{"-c", "exit 3"}},
			wantKind: failure.KindPluginFailure,
			wantMsg:  "status 3",
		},
		{
			name:     "missing executable",
			cfg:      config.CommandToolConfig{Name: "ghost", Command: "devtools-definitely-not-installed"},
			wantKind: failure.KindNotFound,
			wantMsg:  "command not found",
		},
		{
			name:     "missing path",
			cfg:      config.CommandToolConfig{Name: "ghost-path", Command: "/nonexistent/bin/tool"},
			wantKind: failure.KindNotFound,
		},
		{
			name:     "not executable",
			cfg:      config.CommandToolConfig{Name: "noexec", Command: notExecutable},
			wantKind: failure.KindPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := loadOne(t, tt.cfg, domainpack.Env{}).Execute(context.Background(), nil)
			if failure.KindOf(err) != tt.wantKind {
				t.Fatalf("error = %v (kind %v), want %v", err, failure.KindOf(err), tt.wantKind)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCommandTool_Timeout(t *testing.T) {
	requireShell(t)
	t.Parallel()

	tl := loadOne(t, config.CommandToolConfig{Name: "slow", Command: "sh", Args: []string{"-c", "exec sleep 5"}}, domainpack.Env{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tl.Execute(ctx, nil); failure.KindOf(err) != failure.KindTimeout {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestEnviron(t *testing.T) {
	t.Parallel()

	got := environ(map[string]string{"B": "2", "A": "1"})
	if diff := cmp.Diff([]string{"A=1", "B=2"}, got); diff != "" {
		t.Errorf("environ() mismatch (-want +got):\n%s", diff)
	}
}
