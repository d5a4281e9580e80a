package decl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bitpack/decl/internal/parser"
	"github.com/wippyai/bitpack/decl/internal/token"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/schema"
)

// Parse reads struct declarations from source text.
func Parse(source string) ([]*schema.Draft, error) {
	tokens := token.Tokenize(source)
	drafts, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}
	Logger().Debug("parsed declarations", zap.Int("tokens", len(tokens)), zap.Int("structs", len(drafts)))
	return drafts, nil
}

type yamlFile struct {
	Structs []yamlStruct `yaml:"structs"`
}

// yamlLines mirrors yamlFile keeping node positions.
type yamlLines struct {
	Structs []yaml.Node `yaml:"structs"`
}

type yamlStruct struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name string `yaml:"name"`
	Bits int    `yaml:"bits"`
}

// ParseYAML reads struct declarations from a YAML document. Unknown keys
// are rejected.
func ParseYAML(data []byte) ([]*schema.Draft, error) {
	var file yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.PhaseParse, errors.KindSyntax, err, "decoding yaml declarations")
	}
	var lines yamlLines
	if err := yaml.Unmarshal(data, &lines); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindSyntax, err, "decoding yaml declarations")
	}

	seen := make(map[string]int, len(file.Structs))
	drafts := make([]*schema.Draft, 0, len(file.Structs))
	for i, ys := range file.Structs {
		line := lines.Structs[i].Line
		if ys.Name == "" {
			return nil, errors.Syntax(line, "struct has no name")
		}
		if prev, dup := seen[ys.Name]; dup {
			return nil, errors.Syntax(line, "struct %s already declared on line %d", ys.Name, prev)
		}
		seen[ys.Name] = line

		d := schema.NewDraft(ys.Name)
		d.Line = line
		for _, f := range ys.Fields {
			d.Fields = append(d.Fields, schema.Field{Name: f.Name, Width: f.Bits})
		}
		drafts = append(drafts, d)
	}
	Logger().Debug("parsed yaml declarations", zap.Int("structs", len(drafts)))
	return drafts, nil
}

// IsYAML reports whether path names a YAML declaration file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ParseFile reads declarations from a file, choosing the YAML form by
// extension.
func ParseFile(path string) ([]*schema.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if IsYAML(path) {
		return ParseYAML(data)
	}
	return Parse(string(data))
}

// Compile validates every draft and plans the accepted ones with c, or a
// fresh default compiler when c is nil. If any draft is rejected the result
// is a *errors.RejectedSchemasError listing all of them.
func Compile(c *layout.Compiler, drafts []*schema.Draft) ([]*layout.Layout, error) {
	if c == nil {
		c = layout.NewCompilerWithDefaults()
	}

	var rejected []*errors.Error
	layouts := make([]*layout.Layout, 0, len(drafts))
	for _, d := range drafts {
		s, err := d.Validate()
		if err != nil {
			Logger().Debug("struct rejected", zap.String("struct", d.Name), zap.Int("line", d.Line), zap.Error(err))
			rejected = append(rejected, asError(d, err))
			continue
		}
		l, err := c.Compile(s)
		if err != nil {
			rejected = append(rejected, asError(d, err))
			continue
		}
		layouts = append(layouts, l)
	}

	if len(rejected) > 0 {
		return nil, errors.NewRejectedSchemasError(rejected)
	}
	return layouts, nil
}

func asError(d *schema.Draft, err error) *errors.Error {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.Wrap(errors.PhaseValidate, errors.KindInvalidData, err, "")
	}
	if len(e.Path) == 0 {
		e.Path = []string{d.Name}
	}
	return e
}
