// Package builtin assembles the tools that ship with devtools.
package builtin

import (
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/color"
	"github.com/felixgeelhaar/devtools/pack/encoding"
	"github.com/felixgeelhaar/devtools/pack/fileinfo"
	"github.com/felixgeelhaar/devtools/pack/hash"
	"github.com/felixgeelhaar/devtools/pack/text"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// PackName is the name of the built-in pack.
const PackName = "builtin"

// Tools returns the built-in tools in registration order.
func Tools(env pack.Env) []tool.Tool {
	return []tool.Tool{
		fileinfo.FileAnalyzer(env),
		text.Processor(env),
		hash.Generate(env),
		text.JSONValidator(env),
		encoding.Base64(env),
		encoding.URL(env),
		fileinfo.CodeMetrics(env),
		color.Palette(env),
	}
}

// New returns the built-in tools as a single pack.
func New(env pack.Env) *pack.Pack {
	return pack.NewBuilder(PackName).
		WithDescription("DevTools Utility Suite").
		WithVersion(toolkit.Version).
		AddTools(Tools(env)...).
		Build()
}
