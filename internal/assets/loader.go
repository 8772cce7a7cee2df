// Package assets resolves a user-supplied object list to verified local
// asset file paths. Resolution runs once per generation run; the result is
// shared read-only across all workers.
package assets

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver maps opaque content identifiers to local file paths. Missing
// entries are dropped from the returned map, not errored.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]string, error)
}

// Loader reads an object list and produces the immutable asset pool.
type Loader struct {
	resolver Resolver
	log      *zerolog.Logger
}

// NewLoader creates a loader. The resolver is only consulted when the list
// holds content identifiers instead of filesystem paths.
func NewLoader(resolver Resolver, logger *zerolog.Logger) *Loader {
	ldrLog := logger.With().Str("component", "AssetLoader").Logger()
	return &Loader{resolver: resolver, log: &ldrLog}
}

// Load reads listPath and returns the ordered set of existing local asset
// paths. Input mode is sniffed from the first entry: filesystem paths are
// filtered to existing files, anything else is treated as content IDs and
// batch-resolved.
func (l *Loader) Load(ctx context.Context, listPath string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrListNotFound, listPath)
		}
		return nil, fmt.Errorf("open object list: %w", err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read object list: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyList, listPath)
	}

	if isPathEntry(entries[0]) {
		return l.filterPaths(entries)
	}
	return l.resolveIDs(ctx, entries)
}

func isPathEntry(entry string) bool {
	return strings.Contains(entry, "/") || strings.HasSuffix(entry, ".glb")
}

func (l *Loader) filterPaths(entries []string) ([]string, error) {
	valid := make([]string, 0, len(entries))
	for _, p := range entries {
		if _, err := os.Stat(p); err == nil {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: none of %d listed paths exist", ErrNoUsableAssets, len(entries))
	}
	l.log.Info().Int("listed", len(entries)).Int("valid", len(valid)).Msg("object paths verified")
	return valid, nil
}

func (l *Loader) resolveIDs(ctx context.Context, ids []string) ([]string, error) {
	if l.resolver == nil {
		return nil, fmt.Errorf("%w: list holds content IDs but no resolver is configured", ErrNoUsableAssets)
	}

	l.log.Info().Int("count", len(ids)).Msg("resolving content IDs to local paths")
	idToPath, err := l.resolver.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve content IDs: %w", err)
	}

	// Preserve list order; drop IDs that did not resolve to an existing file.
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		p, ok := idToPath[id]
		if !ok {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: 0/%d IDs resolved", ErrNoUsableAssets, len(ids))
	}
	l.log.Info().Int("resolved", len(valid)).Int("requested", len(ids)).Msg("content IDs resolved")
	return valid, nil
}
