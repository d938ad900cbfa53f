// SourceCache reads source files through memory maps so a pipeline run over a
// large tree does not copy every file onto the heap before parsing.
//
// Entries are validated against the file's size and modification time on
// every Get, so an edited file is remapped rather than served stale. Callers
// that rewrite a file must Invalidate it first; the mapping of a file is
// released by Invalidate and Close.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// SourceCache provides mapped access to source files. Safe for concurrent use.
type SourceCache interface {
	// Get returns the mapped file, loading it on first access or when it
	// changed on disk.
	Get(path string) (*MappedFile, error)

	// Excerpt returns the bytes [startByte, endByte) of path. (0, 0) returns
	// the whole file.
	Excerpt(path string, startByte, endByte uint32) (string, error)

	// Invalidate unmaps path. Data previously returned for it must not be
	// used afterwards.
	Invalidate(path string)

	Size() int
	Stats() SourceCacheStats
	Close() error
}

// SourceCacheConfig controls SourceCache limits. Zero means unlimited.
type SourceCacheConfig struct {
	MaxFiles    int
	MaxMemoryMB int
	Logger      *slog.Logger
}

// DefaultSourceCacheConfig returns limits suitable for a typical front-end
// repository.
func DefaultSourceCacheConfig() *SourceCacheConfig {
	return &SourceCacheConfig{
		MaxFiles:    10000,
		MaxMemoryMB: 2048,
	}
}

// MappedFile is a memory-mapped source file.
type MappedFile struct {
	Path string

	// Data is the mapped region, nil for empty files. Fallback entries hold
	// a heap copy wrapped as mmap.MMap.
	Data mmap.MMap

	// File is nil for fallback entries.
	File *os.File

	Size    int64
	ModTime time.Time

	mapped bool
}

// Bytes returns the file contents.
func (mf *MappedFile) Bytes() []byte {
	return mf.Data
}

func (mf *MappedFile) release() error {
	var err error
	if mf.mapped && mf.Data != nil {
		err = mf.Data.Unmap()
	}
	if mf.File != nil {
		if cerr := mf.File.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// SourceCacheStats tracks cache behaviour.
type SourceCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	Remaps        int64
	MmapFailures  int64
	TotalMappedMB float64
}

// NewSourceCache creates a SourceCache. A nil config selects the defaults.
func NewSourceCache(config *SourceCacheConfig) SourceCache {
	if config == nil {
		config = DefaultSourceCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &sourceCache{
		config: config,
		logger: logger,
		files:  make(map[string]*MappedFile),
	}
}

type sourceCache struct {
	config *SourceCacheConfig
	logger *slog.Logger

	files map[string]*MappedFile
	mu    sync.RWMutex

	stats   SourceCacheStats
	statsMu sync.Mutex
}

func (sc *sourceCache) Get(path string) (*MappedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		sc.record(func(s *SourceCacheStats) { s.CacheMisses++ })
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	sc.mu.RLock()
	mf, ok := sc.files[path]
	sc.mu.RUnlock()
	if ok && fresh(mf, info) {
		sc.record(func(s *SourceCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if mf, ok = sc.files[path]; ok {
		if fresh(mf, info) {
			sc.record(func(s *SourceCacheStats) { s.CacheHits++ })
			return mf, nil
		}
		if err := mf.release(); err != nil {
			sc.logger.Warn("failed to release stale mapping", "path", path, "error", err)
		}
		delete(sc.files, path)
		sc.record(func(s *SourceCacheStats) { s.Remaps++ })
	}

	if err := sc.checkLimits(info.Size()); err != nil {
		sc.record(func(s *SourceCacheStats) { s.CacheMisses++ })
		return nil, err
	}

	mf, err = sc.load(path)
	if err != nil {
		sc.record(func(s *SourceCacheStats) { s.CacheMisses++ })
		return nil, err
	}
	sc.files[path] = mf
	sc.record(func(s *SourceCacheStats) {
		s.CacheMisses++
		s.FilesLoaded++
	})
	return mf, nil
}

func fresh(mf *MappedFile, info os.FileInfo) bool {
	return mf.Size == info.Size() && mf.ModTime.Equal(info.ModTime())
}

// checkLimits must be called with mu held.
func (sc *sourceCache) checkLimits(newSize int64) error {
	if sc.config.MaxFiles > 0 && len(sc.files) >= sc.config.MaxFiles {
		return fmt.Errorf("source cache limit reached: %d files (limit: %d files)",
			len(sc.files), sc.config.MaxFiles)
	}
	if sc.config.MaxMemoryMB > 0 && newSize > 0 {
		current := sc.totalMBLocked()
		after := current + float64(newSize)/(1024*1024)
		if after >= float64(sc.config.MaxMemoryMB) {
			return fmt.Errorf("source cache memory limit reached: %.2f MB (limit: %d MB)",
				after, sc.config.MaxMemoryMB)
		}
	}
	return nil
}

// load maps path, falling back to os.ReadFile when mmap fails.
func (sc *sourceCache) load(path string) (*MappedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}

	mf := &MappedFile{Path: path, Size: info.Size(), ModTime: info.ModTime()}
	if info.Size() == 0 {
		file.Close()
		return mf, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		sc.logger.Warn("mmap failed, using fallback", "file", path, "size", info.Size(), "error", err)
		file.Close()

		buf, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		sc.record(func(s *SourceCacheStats) { s.MmapFailures++ })
		mf.Data = mmap.MMap(buf)
		return mf, nil
	}

	mf.Data = data
	mf.File = file
	mf.mapped = true
	return mf, nil
}

func (sc *sourceCache) Excerpt(path string, startByte, endByte uint32) (string, error) {
	mf, err := sc.Get(path)
	if err != nil {
		return "", err
	}
	if len(mf.Data) == 0 {
		return "", nil
	}

	if startByte == 0 && endByte == 0 {
		endByte = uint32(len(mf.Data))
	} else if endByte <= startByte {
		return "", fmt.Errorf("invalid byte range: endByte (%d) <= startByte (%d)", endByte, startByte)
	}
	if endByte > uint32(len(mf.Data)) {
		return "", fmt.Errorf("invalid byte range: endByte (%d) > file size (%d) for %q",
			endByte, len(mf.Data), path)
	}
	return string(mf.Data[startByte:endByte]), nil
}

func (sc *sourceCache) Invalidate(path string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	mf, ok := sc.files[path]
	if !ok {
		return
	}
	if err := mf.release(); err != nil {
		sc.logger.Warn("failed to release mapping", "path", path, "error", err)
	}
	delete(sc.files, path)
}

func (sc *sourceCache) Size() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.files)
}

func (sc *sourceCache) Stats() SourceCacheStats {
	sc.mu.RLock()
	cached := len(sc.files)
	total := sc.totalMBLocked()
	sc.mu.RUnlock()

	sc.statsMu.Lock()
	defer sc.statsMu.Unlock()
	stats := sc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = total
	return stats
}

func (sc *sourceCache) totalMBLocked() float64 {
	var total int64
	for _, mf := range sc.files {
		total += mf.Size
	}
	return float64(total) / (1024 * 1024)
}

func (sc *sourceCache) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	for path, mf := range sc.files {
		if err := mf.release(); err != nil {
			sc.logger.Warn("failed to release mapping", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("release %q: %w", path, err))
		}
	}
	sc.files = make(map[string]*MappedFile)

	sc.statsMu.Lock()
	stats := sc.stats
	sc.statsMu.Unlock()
	sc.logger.Debug("source cache closed",
		"files_loaded", stats.FilesLoaded,
		"cache_hits", stats.CacheHits,
		"remaps", stats.Remaps)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (sc *sourceCache) record(update func(*SourceCacheStats)) {
	sc.statsMu.Lock()
	update(&sc.stats)
	sc.statsMu.Unlock()
}
