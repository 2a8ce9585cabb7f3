package api_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/devtools/interfaces/api"
)

func TestDispatch_CustomTool(t *testing.T) {
	t.Parallel()

	var got []string
	greet := api.NewToolBuilder("greet").
		WithDescription("Say hello").
		WithHandler(func(_ context.Context, args []string) error {
			got = args
			return nil
		}).
		MustBuild()

	reg := api.NewToolRegistry()
	report := api.NewRegistryBuilder(reg).
		Add(api.BuiltinTools(api.Env{})...).
		Add(greet).
		Build(context.Background())
	if !report.OK() {
		t.Fatalf("Build() report = %+v", report)
	}
	if last := report.Registered[len(report.Registered)-1]; last != "greet" {
		t.Errorf("last registered = %q, want greet", last)
	}

	d, err := api.NewDispatcher(reg)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	cmd, err := d.Dispatch(context.Background(), []string{"greet", "--loud", "world"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if cmd.State != api.StateCompleted {
		t.Errorf("State = %s, want %s", cmd.State, api.StateCompleted)
	}
	if diff := cmp.Diff([]string{"--loud", "world"}, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_Builtin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reg := api.NewToolRegistry()
	api.NewRegistryBuilder(reg).
		Add(api.BuiltinTools(api.Env{Stdout: &out})...).
		Build(context.Background())

	d, err := api.NewDispatcher(reg)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	if _, err := d.Dispatch(context.Background(), []string{"url-encoder", "a b"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.String() != "a+b\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestDispatch_Failures(t *testing.T) {
	t.Parallel()

	reg := api.NewToolRegistry()
	api.NewRegistryBuilder(reg).Add(api.BuiltinTools(api.Env{})...).Build(context.Background())
	d, err := api.NewDispatcher(reg)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	cmd, err := d.Dispatch(context.Background(), []string{"nonexistent-tool"})
	if !errors.Is(err, api.KindInvalidArgument) {
		t.Fatalf("Dispatch() error = %v, want invalid argument", err)
	}
	if cmd.State != api.StateFailed {
		t.Errorf("State = %s, want %s", cmd.State, api.StateFailed)
	}
	if api.KindOf(err) != api.KindInvalidArgument {
		t.Errorf("KindOf() = %v", api.KindOf(err))
	}
	if d := api.Diagnostic(err); !strings.HasPrefix(d, "invalid argument: ") || !strings.Contains(d, "nonexistent-tool") {
		t.Errorf("Diagnostic() = %q", d)
	}
}
