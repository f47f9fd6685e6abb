package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
)

// maxManifestSize bounds a decompressed manifest.
const maxManifestSize = 64 << 20

// MaxVersion is the newest manifest version this package reads.
const MaxVersion = 2

// Manifest describes an app's content.
type Manifest struct {
	Version  int     `yaml:"version" json:"version" toml:"version"`
	Title    string  `yaml:"title" json:"title" toml:"title"`
	Language string  `yaml:"language" json:"language" toml:"language"`
	Models   []Model `yaml:"models" json:"models" toml:"models"`
}

// readManifest loads the first manifest found among candidates.
func readManifest(candidates []string) (*Manifest, string, error) {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("%w: read %s: %w", provider.ErrMalformedApp, filepath.Base(path), err)
		}

		ext, data, err := decompress(path, data)
		if err != nil {
			return nil, path, fmt.Errorf("%w: decompress %s: %w", provider.ErrMalformedApp, filepath.Base(path), err)
		}

		m, err := parseManifest(ext, data)
		if err != nil {
			return nil, path, fmt.Errorf("%w: parse %s: %w", provider.ErrMalformedApp, filepath.Base(path), err)
		}
		if err := m.validate(); err != nil {
			return nil, path, err
		}
		return m, path, nil
	}
	return nil, "", fmt.Errorf("%w: no content manifest", provider.ErrMalformedApp)
}

// decompress inflates data according to the compression suffix of path and
// returns the format extension underneath.
func decompress(path string, data []byte) (string, []byte, error) {
	var r io.Reader
	switch ext := filepath.Ext(path); ext {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", nil, err
		}
		defer zr.Close()
		r = zr
	case ".zst":
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return ext, data, nil
	}

	out, err := io.ReadAll(io.LimitReader(r, maxManifestSize+1))
	if err != nil {
		return "", nil, err
	}
	if len(out) > maxManifestSize {
		return "", nil, fmt.Errorf("manifest exceeds %d bytes", maxManifestSize)
	}
	return filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))), out, nil
}

func parseManifest(ext string, data []byte) (*Manifest, error) {
	var m Manifest
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".json":
		err = sonic.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		err = fmt.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Version == 0 {
		m.Version = 1
	}
	if m.Version < 0 {
		return fmt.Errorf("%w: invalid version %d", provider.ErrMalformedApp, m.Version)
	}
	if m.Version > MaxVersion {
		return fmt.Errorf("%w: version %d", provider.ErrUnsupportedVersion, m.Version)
	}

	seen := make(map[string]struct{}, len(m.Models))
	for i, model := range m.Models {
		if model.ID == "" {
			return fmt.Errorf("%w: model %d has no id", provider.ErrMalformedApp, i)
		}
		if _, dup := seen[model.ID]; dup {
			return fmt.Errorf("%w: duplicate model id %q", provider.ErrMalformedApp, model.ID)
		}
		seen[model.ID] = struct{}{}
	}
	return nil
}
