// Package prune wires scanning, caching and the prune analyzer together
// for the CLI and the MCP server.
package prune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/panbanda/jsprune/internal/cache"
	"github.com/panbanda/jsprune/internal/scanner"
	"github.com/panbanda/jsprune/pkg/analyzer/prune"
	"github.com/panbanda/jsprune/pkg/config"
	"github.com/panbanda/jsprune/pkg/source"
)

// ErrNoLibrary is returned when a request names no library code.
var ErrNoLibrary = errors.New("no library sources given")

// Service runs prune requests.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	source source.ContentSource
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the result cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a new prune service.
func New(opts ...Option) *Service {
	s := &Service{
		source: source.NewFilesystem(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	if s.cache == nil {
		s.cache, _ = cache.New("", 0, false)
	}
	return s
}

// Request describes one prune run.
type Request struct {
	// LibraryPaths and AppPaths are files or directories; directories are
	// scanned for .js files.
	LibraryPaths []string
	AppPaths     []string
	// LibrarySources and AppSources are inline files keyed by name, loaded
	// after the scanned ones in name order.
	LibrarySources map[string][]byte
	AppSources     map[string][]byte
	// Externs are added to the configured keep list.
	Externs []string
}

// Response is the outcome of a request.
type Response struct {
	Result     *prune.Result
	Units      []source.Unit
	InputBytes int
	Cached     bool
}

// Load resolves the request's paths into units: library units first.
func (s *Service) Load(req Request) ([]source.Unit, error) {
	sc := scanner.NewScanner(s.config)

	var units []source.Unit
	for _, group := range []struct {
		paths   []string
		library bool
	}{{req.LibraryPaths, true}, {req.AppPaths, false}} {
		if len(group.paths) == 0 {
			continue
		}
		files, err := sc.ScanPaths(group.paths)
		if err != nil {
			return nil, err
		}
		loaded, err := source.Load(s.source, files, group.library)
		if err != nil {
			return nil, err
		}
		units = append(units, loaded...)
	}
	inline, err := loadInline(req)
	if err != nil {
		return nil, err
	}
	units = append(units, inline...)

	if !slices.ContainsFunc(units, func(u source.Unit) bool { return u.Library }) {
		return nil, ErrNoLibrary
	}
	return units, nil
}

// loadInline reads the request's inline sources through a MemorySource so
// they get the same Unit shape and error wrapping as files.
func loadInline(req Request) ([]source.Unit, error) {
	mem := source.NewMemory(req.LibrarySources)
	for name, content := range req.AppSources {
		mem.Put(name, content)
	}

	var units []source.Unit
	for _, group := range []struct {
		files   map[string][]byte
		library bool
	}{{req.LibrarySources, true}, {req.AppSources, false}} {
		names := slices.Sorted(maps.Keys(group.files))
		loaded, err := source.Load(mem, names, group.library)
		if err != nil {
			return nil, err
		}
		units = append(units, loaded...)
	}
	return units, nil
}

// Run loads the request's units and prunes them, consulting the cache.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	units, err := s.Load(req)
	if err != nil {
		return nil, err
	}

	externs := append(slices.Clone(s.config.Prune.Keep), req.Externs...)
	slices.Sort(externs)
	externs = slices.Compact(externs)

	resp := &Response{Units: units}
	for _, u := range units {
		if u.Library {
			resp.InputBytes += len(u.Source)
		}
	}

	key := cache.Key(units, s.optionKey(externs)...)
	var cached prune.Result
	if s.cache.Get(key, &cached) {
		s.logger.Debug("cache hit", "key", key[:12])
		resp.Result = &cached
		resp.Cached = true
		return resp, nil
	}

	opts := []prune.Option{
		prune.WithLogger(s.logger),
		prune.WithPasses(s.config.Prune.Passes),
		prune.WithStrict(s.config.Prune.Strict),
		prune.WithExterns(externs...),
		prune.WithWorkers(s.config.Prune.Workers),
	}
	if s.config.Prune.FixedPoint {
		opts = append(opts, prune.WithFixedPoint())
	}

	a := prune.New(opts...)
	defer a.Close()

	result, err := a.Analyze(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("prune: %w", err)
	}
	resp.Result = result

	if !result.Failed() {
		if err := s.cache.Set(key, result); err != nil {
			s.logger.Warn("cache write failed", "error", err)
		}
	}
	return resp, nil
}

func (s *Service) optionKey(externs []string) []string {
	p := s.config.Prune
	return []string{
		"passes=" + strconv.Itoa(p.Passes),
		"fixed_point=" + strconv.FormatBool(p.FixedPoint),
		"strict=" + strconv.FormatBool(p.Strict),
		"keep=" + strings.Join(externs, ","),
	}
}
