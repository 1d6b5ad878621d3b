// Package config loads the optional viewmig configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/viewmig/internal/manifest"
	"gopkg.in/yaml.v3"
)

// FileNames are looked up, in order, in the addons root.
var FileNames = []string{"viewmig.yaml", "viewmig.yml", ".viewmig.yaml", "viewmig.json"}

// Config holds user settings. Zero values are replaced by Default values.
type Config struct {
	// Author is written into manifests as author and added to maintainers.
	Author string `yaml:"author" json:"author"`
	// Maintainers are added to the manifest maintainers list.
	Maintainers []string `yaml:"maintainers" json:"maintainers"`
	// TargetVersions maps a target major version to the module version written.
	TargetVersions map[int]string `yaml:"target_versions" json:"target_versions"`
	// ViewsGlob selects the view files, relative to the addons root.
	ViewsGlob string `yaml:"views_glob" json:"views_glob"`
	// TreeListExtensions are the file extensions scanned for tree to list renaming.
	TreeListExtensions []string `yaml:"tree_list_extensions" json:"tree_list_extensions"`
	// ExcludeDirs are directory names skipped by every step.
	ExcludeDirs []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	// BackupDir receives the archive made before a migration.
	BackupDir string `yaml:"backup_dir" json:"backup_dir"`
	// LogFile receives a copy of the log output.
	LogFile string `yaml:"log_file" json:"log_file"`
	// ReportDir stores the JSON reports of past runs.
	ReportDir string `yaml:"report_dir" json:"report_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ViewsGlob:          "**/views/**/*.xml",
		TreeListExtensions: []string{".xml", ".py", ".js"},
		BackupDir:          ".",
		LogFile:            "update.log",
		ReportDir:          filepath.Join(".viewmig", "reports"),
	}
}

// TargetVersion returns the module version for the target major.
func (c Config) TargetVersion(major int) string {
	if v, ok := c.TargetVersions[major]; ok && v != "" {
		return v
	}
	return manifest.TargetVersion(major)
}

// Load reads a configuration file (YAML or JSON, by extension). A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return cfg.merge(file), nil
}

// Discover returns the first configuration file found in dir, or "".
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFrom loads path when set, otherwise the file discovered in dir.
func LoadFrom(dir, path string) (Config, error) {
	if path == "" {
		path = Discover(dir)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) merge(o Config) Config {
	if o.Author != "" {
		c.Author = o.Author
	}
	if len(o.Maintainers) > 0 {
		c.Maintainers = o.Maintainers
	}
	if len(o.TargetVersions) > 0 {
		c.TargetVersions = o.TargetVersions
	}
	if o.ViewsGlob != "" {
		c.ViewsGlob = o.ViewsGlob
	}
	if len(o.TreeListExtensions) > 0 {
		c.TreeListExtensions = o.TreeListExtensions
	}
	if len(o.ExcludeDirs) > 0 {
		c.ExcludeDirs = o.ExcludeDirs
	}
	if o.BackupDir != "" {
		c.BackupDir = o.BackupDir
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.ReportDir != "" {
		c.ReportDir = o.ReportDir
	}
	return c
}
