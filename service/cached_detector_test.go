package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassinebenk/bg-v2/model"
	"github.com/yassinebenk/bg-v2/utils"
)

// fakeStore is an in-memory FrameStore with switchable failures.
type fakeStore struct {
	frames  map[string]model.Frame
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{frames: map[string]model.Frame{}}
}

func (s *fakeStore) GetFrame(_ context.Context, key string) (*model.Frame, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if frame, ok := s.frames[key]; ok {
		return &frame, nil
	}
	return nil, nil
}

func (s *fakeStore) SetFrame(_ context.Context, key string, frame model.Frame) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.frames[key] = frame
	s.setKeys = append(s.setKeys, key)
	return nil
}

func writeMockupFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mockup.jpeg")
	require.NoError(t, os.WriteFile(path, []byte("mockup bytes"), 0644))
	return path
}

func TestCachedDetector_MissDetectsAndStores(t *testing.T) {
	t.Parallel()

	path := writeMockupFile(t)
	frame := model.Frame{X: 1, Y: 2, Width: 30, Height: 40}
	inner := &stubDetector{frames: map[string]model.Frame{path: frame}}
	store := newFakeStore()

	detector := NewCachedDetector(inner, store, 240)

	got, err := detector.Detect(path)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
	assert.Len(t, inner.calls, 1)
	require.Len(t, store.setKeys, 1)

	md5, err := utils.FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, FrameKey(md5, 240), store.setKeys[0])
}

func TestCachedDetector_HitSkipsInnerDetector(t *testing.T) {
	t.Parallel()

	path := writeMockupFile(t)
	frame := model.Frame{X: 5, Y: 6, Width: 70, Height: 80}
	inner := &stubDetector{}
	store := newFakeStore()

	md5, err := utils.FileMD5(path)
	require.NoError(t, err)
	store.frames[FrameKey(md5, 240)] = frame

	detector := NewCachedDetector(inner, store, 240)

	got, err := detector.Detect(path)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
	assert.Empty(t, inner.calls)
}

func TestCachedDetector_StoreFailuresFallThrough(t *testing.T) {
	t.Parallel()

	path := writeMockupFile(t)
	frame := model.Frame{Width: 10, Height: 10}
	inner := &stubDetector{frames: map[string]model.Frame{path: frame}}
	store := newFakeStore()
	store.getErr = errors.New("redis gone")
	store.setErr = errors.New("redis gone")

	detector := NewCachedDetector(inner, store, 240)

	got, err := detector.Detect(path)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
	assert.Len(t, inner.calls, 1)
}

func TestCachedDetector_NilStoreDisablesCaching(t *testing.T) {
	t.Parallel()

	frame := model.Frame{Width: 10, Height: 20}
	inner := &stubDetector{frames: map[string]model.Frame{"direct.png": frame}}

	detector := NewCachedDetector(inner, nil, 240)

	got, err := detector.Detect("direct.png")
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}
