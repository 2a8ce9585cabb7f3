package text

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
)

func validate(t *testing.T, env pack.Env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	env.Stdout = &out
	err := JSONValidator(env).Execute(context.Background(), args)
	return out.String(), err
}

func TestJSONValidator_Output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "doc.json", `{ "a" : [1, 2] }`)

	tests := []struct {
		name string
		env  pack.Env
		args []string
		want string
	}{
		{"valid", pack.Env{}, []string{path}, path + ": valid JSON\n"},
		{"pretty", pack.Env{TabSize: 2}, []string{"--pretty", path}, "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"},
		{"compact", pack.Env{}, []string{"-c", path}, "{\"a\":[1,2]}\n"},
		{"stdin", pack.Env{Stdin: strings.NewReader("[true, null]")}, nil, "<stdin>: valid JSON\n"},
		{"stdin dash", pack.Env{Stdin: strings.NewReader(`"x"`)}, []string{"-c", "-"}, "\"x\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := validate(t, tt.env, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestJSONValidator_StdinTwice(t *testing.T) {
	t.Parallel()

	out, err := validate(t, pack.Env{Stdin: strings.NewReader(`{}`)}, "-", "-")
	if !errors.Is(err, failure.KindInvalidArgument) {
		t.Fatalf("Execute() error = %v, want invalid argument", err)
	}
	if !strings.Contains(err.Error(), "standard input can only be read once") {
		t.Errorf("error = %q", err.Error())
	}
	if out != "" {
		t.Errorf("nothing should be validated, got %q", out)
	}
}

func TestJSONValidator_SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trailing comma", `{"a": 1,}`, "<stdin>:1:9: invalid character '}'"},
		{"missing comma", "{\n  \"a\": 1\n  \"b\": 2\n}", "<stdin>:3:3: invalid character '\"' after object key:value pair"},
		{"trailing data", "{} x", "<stdin>:1:4: invalid character 'x' after top-level value"},
		{"empty", "", "<stdin>:1:1: unexpected end of JSON input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := validate(t, pack.Env{Stdin: strings.NewReader(tt.input)})
			if !errors.Is(err, failure.KindParseError) {
				t.Fatalf("Execute() error = %v, want parse error", err)
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("error = %q, want prefix %q", err.Error(), tt.want)
			}
		})
	}
}

func TestJSONValidator_Multiple(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"ok": true}`)
	bad := writeFile(t, dir, "bad.json", `{"ok": tru}`)

	var stderr bytes.Buffer
	out, err := validate(t, pack.Env{Stderr: &stderr}, good, bad)

	if !errors.Is(err, failure.KindParseError) {
		t.Fatalf("Execute() error = %v, want parse error", err)
	}
	if err.Error() != "json-validator: 1 of 2 document(s) invalid" {
		t.Errorf("error = %q", err.Error())
	}
	if out != good+": valid JSON\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.HasPrefix(stderr.String(), bad+":1:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestJSONValidator_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		kind failure.Kind
	}{
		{"conflicting modes", []string{"--pretty", "--compact"}, failure.KindInvalidArgument},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.json")}, failure.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := validate(t, pack.Env{}, tt.args...)
			if !errors.Is(err, tt.kind) {
				t.Errorf("Execute() error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	t.Parallel()

	data := []byte("ab\ncd\nef")
	tests := []struct {
		consumed  int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 1, 2},
		{4, 2, 1},
		{8, 3, 2},
		{99, 3, 3},
	}
	for _, tt := range tests {
		line, col := position(data, tt.consumed)
		if line != tt.line || col != tt.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tt.consumed, line, col, tt.line, tt.col)
		}
	}
}

func TestToolNames(t *testing.T) {
	t.Parallel()

	if got := Processor(pack.Env{}).Name(); got != "text-processor" {
		t.Errorf("Processor name = %q", got)
	}
	if got := JSONValidator(pack.Env{}).Name(); got != "json-validator" {
		t.Errorf("JSONValidator name = %q", got)
	}
}
