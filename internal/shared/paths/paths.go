// Package paths provides standardized filesystem and bus paths for knowledge apps.
package paths

import (
	"errors"
	"path/filepath"
	"strings"
)

// Content layout inside an app directory
const (
	ShardsDir    = "shards"
	ShardPattern = "shards/**/*.shard"
	ManifestStem = "content"
)

// Manifest formats and compression suffixes, in lookup order
var (
	ManifestFormats      = []string{".yaml", ".yml", ".json", ".toml"}
	ManifestCompressions = []string{".gz", ".zst"}
)

// ManifestNames lists accepted manifest files in lookup order. Plain files
// win over compressed ones.
var ManifestNames = manifestNames()

func manifestNames() []string {
	out := make([]string, 0, len(ManifestFormats)*(len(ManifestCompressions)+1))
	for _, ext := range ManifestFormats {
		out = append(out, ManifestStem+ext)
	}
	for _, comp := range ManifestCompressions {
		for _, ext := range ManifestFormats {
			out = append(out, ManifestStem+ext+comp)
		}
	}
	return out
}

// ErrInvalidAppID is returned for ids that cannot name a content directory.
var ErrInvalidAppID = errors.New("invalid application id")

// App returns application-specific paths
type App struct {
	Root string
	ID   string
}

// AppPath returns paths for a specific application under root
func AppPath(root, appID string) App {
	return App{Root: root, ID: appID}
}

// Validate rejects ids that would escape the content root.
func (a App) Validate() error {
	if a.ID == "" || a.ID == "." || a.ID == ".." ||
		strings.ContainsAny(a.ID, "/\\\x00") {
		return ErrInvalidAppID
	}
	return nil
}

// Dir returns the app's content directory
func (a App) Dir() string {
	return filepath.Join(a.Root, a.ID)
}

// Manifests returns candidate manifest paths in lookup order
func (a App) Manifests() []string {
	out := make([]string, len(ManifestNames))
	for i, name := range ManifestNames {
		out[i] = filepath.Join(a.Dir(), name)
	}
	return out
}

// Shards returns the app's shard directory
func (a App) Shards() string {
	return filepath.Join(a.Dir(), ShardsDir)
}

// ObjectPath returns the object path the app itself is reachable at,
// its id with dots turned into slashes.
func (a App) ObjectPath() string {
	return "/" + strings.ReplaceAll(a.ID, ".", "/")
}

// Rel returns path relative to the app's content directory, slash
// separated. It returns false when path lies outside the directory.
func (a App) Rel(path string) (string, bool) {
	rel, err := filepath.Rel(a.Dir(), path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
