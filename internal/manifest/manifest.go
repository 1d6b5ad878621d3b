// Package manifest reads, validates and updates Odoo module manifests.
package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/viewmig/internal/textio"
	"github.com/aretw0/viewmig/pkg/literal"
	"github.com/aretw0/viewmig/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// FileName is the manifest file name of an Odoo module.
const FileName = "__manifest__.py"

// ErrVersionNotFound is returned when no manifest declares a version.
var ErrVersionNotFound = errors.New("no manifest declares a version")

// Manifest holds the manifest keys the migration cares about.
type Manifest struct {
	Name        string         `mapstructure:"name"`
	Version     string         `mapstructure:"version"`
	Author      string         `mapstructure:"author"`
	Maintainers []string       `mapstructure:"maintainers"`
	Depends     []string       `mapstructure:"depends"`
	Data        []string       `mapstructure:"data"`
	Installable bool           `mapstructure:"installable"`
	Extra       map[string]any `mapstructure:",remain"`
}

// Schema describes the keys that must be well formed before a manifest is
// rewritten. maintainers is left out: Update warns about it instead of
// refusing the whole manifest.
var Schema = schema.Schema{
	"name":        schema.String(),
	"version":     schema.Optional(schema.Pattern("version", `^\d+(\.\d+)*$`)),
	"author":      schema.Optional(schema.String()),
	"depends":     schema.Optional(schema.Slice(schema.String())),
	"data":        schema.Optional(schema.Slice(schema.String())),
	"installable": schema.Optional(schema.Bool()),
}

// File is a parsed manifest together with its source text.
type File struct {
	Path   string
	Dict   *literal.Dict
	header string
	text   *textio.Text
}

// Parse parses manifest source. Comment lines before the dictionary are
// kept and written back by Source.
func Parse(content string) (*literal.Dict, string, error) {
	v, err := literal.Parse(content)
	if err != nil {
		return nil, "", err
	}
	d, ok := v.(*literal.Dict)
	if !ok {
		return nil, "", fmt.Errorf("manifest is not a dictionary")
	}
	return d, leadingComments(content), nil
}

func leadingComments(content string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			break
		}
		b.WriteString(strings.TrimRight(line, "\r\n") + "\n")
	}
	return b.String()
}

// Load reads and parses the manifest at path.
func Load(path string) (*File, error) {
	text, err := textio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, header, err := Parse(text.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Path: path, Dict: d, header: header, text: text}, nil
}

// Decode maps the dictionary onto a Manifest.
func Decode(d *literal.Dict) (*Manifest, error) {
	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &m,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(d.Map()); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Validate checks the dictionary against Schema.
func Validate(d *literal.Dict) error {
	return schema.Validate(Schema, d.Map())
}

// Source renders the manifest as Python source.
func (f *File) Source() string {
	return f.header + literal.Format(f.Dict) + "\n"
}

// Save writes the manifest back with its original encoding and line endings.
func (f *File) Save() error {
	return textio.WriteFile(f.Path, f.text, f.Source())
}

// UpdateOptions are the values written into a manifest.
type UpdateOptions struct {
	Version     string
	Author      string
	Maintainers []string
}

// Update sets version and author and makes sure the author and extra
// maintainers are listed. It returns whether the dictionary changed and
// warnings for keys it could not update.
func Update(d *literal.Dict, opts UpdateOptions) (bool, []string) {
	changed := false
	var warnings []string

	set := func(key, value string) {
		if value == "" {
			return
		}
		if cur, ok := d.Get(key); !ok || cur != value {
			d.Set(key, value)
			changed = true
		}
	}
	set("version", opts.Version)
	set("author", opts.Author)

	wanted := opts.Maintainers
	if opts.Author != "" {
		wanted = append([]string{opts.Author}, wanted...)
	}
	if len(wanted) == 0 {
		return changed, warnings
	}
	cur, ok := d.Get("maintainers")
	if !ok {
		list := make([]any, 0, len(wanted))
		for _, w := range wanted {
			list = append(list, w)
		}
		d.Set("maintainers", list)
		return true, warnings
	}
	list, ok := cur.([]any)
	if !ok {
		return changed, append(warnings, fmt.Sprintf("maintainers is not a list (%s), left unchanged", literal.Repr(cur)))
	}
	for _, w := range wanted {
		if !contains(list, w) {
			list = append(list, w)
			changed = true
		}
	}
	d.Set("maintainers", list)
	return changed, warnings
}

func contains(list []any, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var versionPattern = regexp.MustCompile(`['"]version['"]\s*:\s*['"](\d+)\.`)

// MajorVersion extracts the leading version number from manifest source.
// It parses the dictionary first and falls back to a pattern search when
// the source does not parse.
func MajorVersion(content string) (int, bool) {
	if d, _, err := Parse(content); err == nil {
		m, err := Decode(d)
		if err != nil || m.Version == "" {
			return 0, false
		}
		major, _, _ := strings.Cut(m.Version, ".")
		n, err := strconv.Atoi(major)
		return n, err == nil
	}
	if m := versionPattern.FindStringSubmatch(content); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

// DetectVersion returns the major version declared by the first manifest
// in paths that declares one, with the path it came from.
func DetectVersion(paths []string) (int, string, error) {
	for _, p := range paths {
		text, err := textio.ReadFile(p)
		if err != nil {
			continue
		}
		if n, ok := MajorVersion(text.Content); ok {
			return n, p, nil
		}
	}
	return 0, "", ErrVersionNotFound
}

// TargetVersion returns the module version written for a target major.
func TargetVersion(major int) string {
	return fmt.Sprintf("%d.0.1.0.0", major)
}
