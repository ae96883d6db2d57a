package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsukino/mcp-lensref-server/internal/catalog"
	"github.com/tsukino/mcp-lensref-server/internal/config"
	"github.com/tsukino/mcp-lensref-server/internal/domain"
	"github.com/tsukino/mcp-lensref-server/internal/render"
)

// reloadDebounce coalesces the burst of filesystem events an editor or
// sync tool emits per save into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Service owns the loaded content, the renderer and the catalog search
// index, and keeps them consistent across reloads.
type Service struct {
	settings  *config.ContentSettings
	store     *Store
	renderCfg *render.Config
	engine    *catalog.Engine
	search    *catalog.SearchIndex

	mu       sync.RWMutex
	snap     *Snapshot
	renderer *render.Renderer
	ready    bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewService creates the content service. The optional config file
// overrides both the render label tables and the facet vocabulary.
func NewService(settings *config.ContentSettings) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if _, err := os.Stat(settings.DataDir); err != nil {
		return nil, fmt.Errorf("content data directory: %w", err)
	}

	renderCfg, err := render.LoadConfig(settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	vocab, err := catalog.LoadVocabulary(settings.ConfigFile)
	if err != nil {
		return nil, err
	}

	return &Service{
		settings:  settings,
		store:     NewStore(settings.DataDir),
		renderCfg: renderCfg,
		engine:    catalog.NewEngine(vocab),
		search:    catalog.NewSearchIndex(settings.MaxResults),
	}, nil
}

// Initialize performs the first load and starts the filesystem watcher
// when enabled.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.Reload(); err != nil {
		return err
	}
	if s.settings.Watch {
		if err := s.startWatcher(); err != nil {
			slog.Warn("Content watch unavailable, continuing without live reload", "error", err)
		}
	}
	return nil
}

// Reload reads the content directory into a fresh snapshot and swaps
// it in. Per-file decode failures are logged and skipped; only a total
// load failure is an error.
func (s *Service) Reload() error {
	snap, err := s.store.Load()
	if err != nil {
		slog.Warn("Some content records failed to load", "error", err)
	}
	if snap == nil {
		return fmt.Errorf("content load failed: %w", err)
	}

	renderer := render.New(s.mergedConfig(snap), func(slug string) bool {
		_, ok := snap.Lenses[slug]
		return ok
	})

	if err := s.search.Rebuild(snap.LensList); err != nil {
		slog.Error("Failed to rebuild lens search index", "error", err)
	}

	s.mu.Lock()
	s.snap = snap
	s.renderer = renderer
	s.ready = true
	s.mu.Unlock()

	slog.Info("Content loaded",
		"designs", len(snap.Designs),
		"lenses", len(snap.Lenses),
		"terms", len(snap.Terms))
	return nil
}

// mergedConfig extends the configured term-link dictionary with entries
// derived from the loaded term records. Configured entries win on
// duplicate display text.
func (s *Service) mergedConfig(snap *Snapshot) *render.Config {
	seen := map[string]bool{}
	for _, link := range s.renderCfg.TermLinks {
		seen[link.Term] = true
	}
	merged := *s.renderCfg
	merged.TermLinks = append([]domain.TermLink(nil), s.renderCfg.TermLinks...)
	for _, link := range snap.TermLinks() {
		if !seen[link.Term] {
			merged.TermLinks = append(merged.TermLinks, link)
		}
	}
	return &merged
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := []string{s.settings.DataDir}
	for _, sub := range []string{DesignsDir, LensesDir, TermsDir} {
		dir := filepath.Join(s.settings.DataDir, sub)
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	s.watcher = watcher
	s.done = make(chan struct{})
	go s.watchLoop()
	slog.Info("Watching content directory", "dir", s.settings.DataDir)
	return nil
}

func (s *Service) watchLoop() {
	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Content watch error", "error", err)
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				slog.Error("Content reload failed", "error", err)
			}
		}
	}
}

func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// IsReady reports whether an initial load has completed.
func (s *Service) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Snapshot returns the current content snapshot.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Renderer returns the renderer bound to the current snapshot.
func (s *Service) Renderer() *render.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

// Engine returns the facet filter engine.
func (s *Service) Engine() *catalog.Engine {
	return s.engine
}

// Search runs a catalog search.
func (s *Service) Search(query, manufacturer, designType string) ([]catalog.Hit, uint64, error) {
	return s.search.Search(query, manufacturer, designType)
}

// GetSettings returns the service settings.
func (s *Service) GetSettings() *config.ContentSettings {
	return s.settings
}

// Design returns a design record by slug.
func (s *Service) Design(slug string) (*render.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotFound
	}
	doc, ok := s.snap.Designs[slug]
	if !ok {
		return nil, fmt.Errorf("design %q: %w", slug, ErrNotFound)
	}
	return doc, nil
}

// Lens returns a lens record by slug.
func (s *Service) Lens(slug string) (*domain.Lens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotFound
	}
	lens, ok := s.snap.Lenses[slug]
	if !ok {
		return nil, fmt.Errorf("lens %q: %w", slug, ErrNotFound)
	}
	return lens, nil
}

// Term returns a glossary term by slug.
func (s *Service) Term(slug string) (*domain.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotFound
	}
	term, ok := s.snap.Terms[slug]
	if !ok {
		return nil, fmt.Errorf("term %q: %w", slug, ErrNotFound)
	}
	return term, nil
}

// Lenses returns the catalog in stable order.
func (s *Service) Lenses() []*domain.Lens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil
	}
	return s.snap.LensList
}

// RenderDesign renders a design record to its block sequence and
// reports rendering diagnostics.
func (s *Service) RenderDesign(slug string) ([]render.Block, *render.Diagnostics, error) {
	doc, err := s.Design(slug)
	if err != nil {
		return nil, nil, err
	}
	renderer := s.Renderer()
	var diag render.Diagnostics
	blocks := renderer.RenderRecord(doc, &diag)
	for _, event := range diag.Events() {
		slog.Debug("Design rendering fallback",
			"design", slug, "kind", event.Kind.String(), "path", event.Path, "detail", event.Detail)
	}
	return blocks, &diag, nil
}

// Close stops the watcher and releases the search index.
func (s *Service) Close() error {
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close watcher: %w", err)
		}
		s.watcher = nil
	}
	return s.search.Close()
}
