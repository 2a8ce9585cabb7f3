package builtin_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/infrastructure/storage/memory"
	"github.com/felixgeelhaar/devtools/pack/builtin"
)

var wantOrder = []string{
	"file-analyzer",
	"text-processor",
	"hash-generate",
	"json-validator",
	"base64-encoder",
	"url-encoder",
	"code-metrics",
	"color-palette",
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := builtin.New(pack.Env{})
	if p.Name != builtin.PackName {
		t.Errorf("Name = %q", p.Name)
	}
	if diff := cmp.Diff(wantOrder, p.ToolNames()); diff != "" {
		t.Errorf("ToolNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestTools_Register(t *testing.T) {
	t.Parallel()

	reg := memory.NewToolRegistry()
	for _, tl := range builtin.Tools(pack.Env{}) {
		if err := reg.Register(tl); err != nil {
			t.Fatalf("Register(%s) error = %v", tl.Name(), err)
		}
	}

	names := make([]string, 0, len(wantOrder))
	for _, tl := range reg.List() {
		names = append(names, tl.Name())
	}
	if diff := cmp.Diff(wantOrder, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestTools_Help(t *testing.T) {
	t.Parallel()

	for _, tl := range builtin.Tools(pack.Env{}) {
		t.Run(tl.Name(), func(t *testing.T) {
			t.Parallel()

			var help bytes.Buffer
			tool.WriteHelp(&help, tl)
			if !strings.Contains(help.String(), "Usage: devtools "+tl.Name()) {
				t.Errorf("help = %q", help.String())
			}

			var out bytes.Buffer
			env := pack.Env{Stdout: &out}
			fresh := findTool(t, builtin.Tools(env), tl.Name())
			if err := fresh.Execute(context.Background(), []string{"--help"}); err != nil {
				t.Fatalf("Execute(--help) error = %v", err)
			}
			if out.String() != help.String() {
				t.Errorf("--help output differs from WriteHelp:\n%s\nvs\n%s", out.String(), help.String())
			}
		})
	}
}

func findTool(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}
