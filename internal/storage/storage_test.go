package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "html_files")

	s, err := New(dir)
	require.NoError(t, err)
	assert.True(t, s.Created())
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again, err := New(dir)
	require.NoError(t, err)
	assert.False(t, again.Created())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/raids")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "raids"), s.Dir())
}

func TestPagePath(t *testing.T) {
	s := &Storage{dir: "/data/html_files"}
	assert.Equal(t, filepath.Join("/data/html_files", "bb0ea6749c.html"), s.PagePath("bb0ea6749c"))
}

func TestLoadPage(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.LoadPage("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPageNotFound))
	assert.Contains(t, err.Error(), s.PagePath("missing"))

	require.NoError(t, os.WriteFile(s.PagePath("abc"), []byte("<html></html>"), 0644))

	html, err := s.LoadPage("abc")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
}

func TestWaitForPage_AlreadySaved(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.PagePath("abc"), []byte("x"), 0644))

	path, err := s.WaitForPage(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, s.PagePath("abc"), path)
}

func TestWaitForPage_SavedLater(t *testing.T) {
	defer goleak.VerifyNone(t)

	original := settleDelay
	settleDelay = 0
	defer func() { settleDelay = original }()

	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(s.Dir(), "other.html"), []byte("x"), 0644)
		_ = os.WriteFile(s.PagePath("abc"), []byte("<html></html>"), 0644)
	}()

	path, err := s.WaitForPage(ctx, "abc")
	<-done
	require.NoError(t, err)
	assert.Equal(t, s.PagePath("abc"), path)
}

func TestWaitForPage_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = s.WaitForPage(ctx, "never")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
