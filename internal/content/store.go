package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/paths"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Opener loads the content of an app.
type Opener interface {
	Open(ctx context.Context, appID string) (*Domain, error)
}

// Store opens app content below a root directory.
type Store struct {
	root      string
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
}

// NewStore creates a store rooted at root
func NewStore(root string) *Store {
	return &Store{
		root:      root,
		logger:    zap.NewNop(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// WithLogger sets the logger
func (s *Store) WithLogger(logger *zap.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Root returns the content root directory
func (s *Store) Root() string {
	return s.root
}

// Open loads the content of appID.
func (s *Store) Open(ctx context.Context, appID string) (*Domain, error) {
	app := paths.AppPath(s.root, appID)
	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", provider.ErrAppNotFound, appID, err)
	}

	info, err := os.Stat(app.Dir())
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", provider.ErrAppNotFound, appID)
	}
	if err != nil {
		return nil, fmt.Errorf("stat content for %s: %w", appID, err)
	}

	manifest, source, err := readManifest(app.Manifests())
	if err != nil {
		return nil, err
	}

	shards, err := s.findShards(ctx, app)
	if err != nil {
		return nil, err
	}

	d := &Domain{
		AppID:    appID,
		Dir:      app.Dir(),
		Manifest: source,
		Version:  manifest.Version,
		Title:    manifest.Title,
		shards:   shards,
		models:   make([]Model, len(manifest.Models)),
		index:    make(map[string]int, len(manifest.Models)),
		folded:   make([]string, len(manifest.Models)),
	}
	for i, m := range manifest.Models {
		m.Synopsis = strings.TrimSpace(s.sanitizer.Sanitize(m.Synopsis))
		d.models[i] = m
		d.index[m.ID] = i
		d.folded[i] = fold(strings.Join([]string{m.Title, m.OriginalTitle, m.Synopsis}, "\n"))
	}

	s.logger.Debug("Opened app content",
		zap.String("app_id", appID),
		zap.String("manifest", filepath.Base(source)),
		zap.Int("version", d.Version),
		zap.Int("models", len(d.models)),
		zap.Int("shards", len(d.shards)))
	return d, nil
}

// findShards lists shard files of app, sorted.
func (s *Store) findShards(ctx context.Context, app paths.App) ([]string, error) {
	if _, err := os.Stat(app.Shards()); errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}

	var mu sync.Mutex
	shards := []string{}
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, app.Shards(), func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}

		rel, ok := app.Rel(p)
		if !ok {
			return nil
		}
		if ok, _ := doublestar.Match(paths.ShardPattern, rel); ok {
			mu.Lock()
			shards = append(shards, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list shards: %w", provider.ErrMalformedApp, err)
	}

	sort.Strings(shards)
	return shards, nil
}
