// Package fs provides a filesystem backed dao.Service storing one JSON file
// per record. Writes go to a temporary object first and are moved into place,
// so a concurrent reader never observes a partially written record.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/hibernator/internal/idgen"
	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/dao"
)

// jsonExt is shared by temp and record objects; afs Move treats a target
// with a different extension than its source as a directory.
const jsonExt = ".json"

// Service implements a filesystem-based record storage.
type Service[T any] struct {
	baseURL     string
	prefix      string
	keySelector func(*T) string
	fs          afs.Service
	mu          sync.RWMutex
}

// Save atomically persists a record under its sanitised key.
func (s *Service[T]) Save(ctx context.Context, t *T) error {
	if t == nil {
		return dao.ErrNilEntity
	}
	target, err := s.recordURL(s.keySelector(t))
	if err != nil {
		return err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.ensureBase(ctx); err != nil {
		return err
	}

	tmp := url.Join(s.baseURL, "."+idgen.New()+jsonExt)
	if err = s.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write temp record %s: %w", tmp, err)
	}
	if err = s.fs.Move(ctx, tmp, target); err != nil {
		_ = s.fs.Delete(ctx, tmp)
		return fmt.Errorf("failed to move record into %s: %w", target, err)
	}
	return nil
}

// Load retrieves a record, dao.ErrNotFound when it does not exist.
func (s *Service[T]) Load(ctx context.Context, id string) (*T, error) {
	target, err := s.recordURL(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", target, err)
	}
	var ret T
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", target, err)
	}
	return &ret, nil
}

// Delete removes a record, dao.ErrNotFound when it does not exist.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	target, err := s.recordURL(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, target); err != nil {
		return fmt.Errorf("failed to delete record file %s: %w", target, err)
	}
	return nil
}

// List returns all records stored under the base location. Unreadable files
// are skipped.
func (s *Service[T]) List(ctx context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil || !exists {
		return nil, err
	}
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	var ret []*T
	for _, object := range objects {
		name := object.Name()
		if object.IsDir() || !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, jsonExt) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}
		var record T
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		ret = append(ret, &record)
	}
	return ret, nil
}

// URL returns the location a record with the supplied id is stored at.
func (s *Service[T]) URL(id string) (string, error) {
	return s.recordURL(id)
}

func (s *Service[T]) recordURL(id string) (string, error) {
	safeID := execution.SanitizeID(id)
	if safeID == "" {
		return "", dao.ErrInvalidID
	}
	return url.Join(s.baseURL, s.prefix+safeID+jsonExt), nil
}

// ensureBase creates the base directory when missing. It is checked on every
// write so a removed directory is recreated.
func (s *Service[T]) ensureBase(ctx context.Context) error {
	if exists, _ := s.fs.Exists(ctx, s.baseURL); exists {
		return nil
	}
	if err := s.fs.Create(ctx, s.baseURL, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create base directory %s: %w", s.baseURL, err)
	}
	return nil
}

// New creates a filesystem store rooted at baseURL. Record files are named
// <prefix><sanitised id>.json.
func New[T any](baseURL, prefix string, keySelector func(*T) string, options ...Option) (*Service[T], error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if keySelector == nil {
		return nil, fmt.Errorf("key selector cannot be nil")
	}
	ret := &Service[T]{
		baseURL:     url.Normalize(baseURL, file.Scheme),
		prefix:      prefix,
		keySelector: keySelector,
	}
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}
	ret.fs = cfg.fs
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret, nil
}

var _ dao.Service[string, struct{}] = (*Service[struct{}])(nil)
