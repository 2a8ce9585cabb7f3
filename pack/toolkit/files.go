package toolkit

import (
	"bytes"
	"io"
	"os"

	"github.com/felixgeelhaar/devtools/domain/failure"
)

// StdinName is the operand that selects standard input.
const StdinName = "-"

// binaryProbe is how many leading bytes are inspected for NUL.
const binaryProbe = 8000

// ReadFile reads path, classifying failures as NotFound, PermissionDenied or
// PluginFailure.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(err, path)
	}
	return data, nil
}

// ReadInput reads path, or stdin when path is StdinName.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path != StdinName {
		return ReadFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, failure.FromError(err, failure.KindPluginFailure, "cannot read standard input")
	}
	return data, nil
}

// StdinOnce rejects operand lists that name standard input more than once,
// since the second read would see an empty stream.
func StdinOnce(toolName string, inputs []string) error {
	seen := false
	for _, in := range inputs {
		if in != StdinName {
			continue
		}
		if seen {
			return failure.InvalidArgument("%s: standard input can only be read once", toolName)
		}
		seen = true
	}
	return nil
}

// OpenFile opens path for reading and rejects directories.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(err, path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fileError(err, path)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, failure.InvalidArgument("%s is a directory", path)
	}
	return f, nil
}

// WriteFile replaces path's contents and keeps its permissions.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return failure.FromError(err, failure.KindPluginFailure, "cannot write %s", path)
	}
	return nil
}

// IsBinary reports whether data looks like binary content.
func IsBinary(data []byte) bool {
	if len(data) > binaryProbe {
		data = data[:binaryProbe]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// CountLines counts newline-terminated lines plus a trailing partial line.
func CountLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func fileError(err error, path string) error {
	return failure.FromError(err, failure.KindPluginFailure, "cannot read %s", path)
}
