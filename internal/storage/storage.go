package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PageExt is the extension of saved raid pages
const PageExt = ".html"

// ErrPageNotFound is returned when the saved page for a raid is missing
var ErrPageNotFound = errors.New("raid page not found")

// settleDelay lets the browser finish writing before the page is read
var settleDelay = 250 * time.Millisecond

// Storage handles the saved raid page folder
type Storage struct {
	dir     string
	created bool
}

// New creates a new Storage instance, creating the folder if it doesn't exist
func New(dir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	created := false
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		created = true
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating page directory: %w", err)
	}

	return &Storage{
		dir:     dir,
		created: created,
	}, nil
}

// Dir returns the folder path
func (s *Storage) Dir() string {
	return s.dir
}

// Created reports whether New had to create the folder
func (s *Storage) Created() bool {
	return s.created
}

// PagePath returns the path where the page for raidID is expected
func (s *Storage) PagePath(raidID string) string {
	return filepath.Join(s.dir, raidID+PageExt)
}

// LoadPage reads the saved page for raidID
func (s *Storage) LoadPage(raidID string) (string, error) {
	return ReadPage(s.PagePath(raidID))
}

// ReadPage reads a saved page from an explicit path
func ReadPage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrPageNotFound, path)
		}
		return "", fmt.Errorf("reading page: %w", err)
	}
	return string(data), nil
}

// WaitForPage blocks until the page for raidID exists in the folder, or ctx ends.
// Browsers often write to a temp name and rename, so both create and rename
// events of the target name count.
func (s *Storage) WaitForPage(ctx context.Context, raidID string) (string, error) {
	path := s.PagePath(raidID)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return "", fmt.Errorf("watching %s: %w", s.dir, err)
	}

	// The page may have been saved before the watch started
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for %s: %w", path, ctx.Err())

		case evt, ok := <-watcher.Events:
			if !ok {
				return "", fmt.Errorf("watcher closed while waiting for %s", path)
			}
			if filepath.Clean(evt.Name) != filepath.Clean(path) {
				continue
			}
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
				continue
			}
			if _, err := os.Stat(path); err != nil {
				continue
			}

			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return "", fmt.Errorf("waiting for %s: %w", path, ctx.Err())
			}
			return path, nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return "", fmt.Errorf("watcher closed while waiting for %s", path)
			}
			return "", fmt.Errorf("watching %s: %w", s.dir, err)
		}
	}
}
