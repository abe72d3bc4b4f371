package tapestry

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefetchCall struct {
	uri string
	id  RequestID
}

// fakeLoader stands in for the native image loader in tests.
type fakeLoader struct {
	sizes       map[string]Size
	sizeErr     error
	prefetched  []prefetchCall
	prefetchErr error
	aborted     []RequestID
	cache       map[string]CacheLocation
	cacheErr    error
}

func (f *fakeLoader) GetSize(ctx context.Context, uri string) (Size, error) {
	if f.sizeErr != nil {
		return Size{}, f.sizeErr
	}
	return f.sizes[uri], nil
}

func (f *fakeLoader) PrefetchImage(ctx context.Context, uri string, id RequestID) error {
	f.prefetched = append(f.prefetched, prefetchCall{uri: uri, id: id})
	return f.prefetchErr
}

func (f *fakeLoader) AbortRequest(id RequestID) {
	f.aborted = append(f.aborted, id)
}

func (f *fakeLoader) QueryCache(ctx context.Context, uris []string) (map[string]CacheLocation, error) {
	if f.cacheErr != nil {
		return nil, f.cacheErr
	}
	out := make(map[string]CacheLocation)
	for _, uri := range uris {
		if location, ok := f.cache[uri]; ok {
			out[uri] = location
		}
	}
	return out, nil
}

func withFakeLoader(t *testing.T, f *fakeLoader) {
	t.Helper()
	SetLoader(f)
	t.Cleanup(func() { SetLoader(nil) })
}

func TestPrefetchIssuesIncreasingRequestIDs(t *testing.T) {
	fake := &fakeLoader{}
	withFakeLoader(t, fake)

	var ids []RequestID
	onID := func(id RequestID) { ids = append(ids, id) }

	require.NoError(t, Prefetch(context.Background(), "https://x/a.png", onID))
	require.NoError(t, Prefetch(context.Background(), "https://x/b.png", onID))

	require.Len(t, ids, 2)
	assert.Greater(t, ids[1], ids[0], "request ids must be strictly increasing")
	assert.GreaterOrEqual(t, ids[0], RequestID(1), "request ids start at 1")

	require.Len(t, fake.prefetched, 2)
	assert.Equal(t, ids[0], fake.prefetched[0].id, "loader must see the issued id")
	assert.Equal(t, ids[1], fake.prefetched[1].id)
	assert.Equal(t, "https://x/a.png", fake.prefetched[0].uri)
}

func TestPrefetchReportsIDBeforeDelegating(t *testing.T) {
	fake := &fakeLoader{}
	withFakeLoader(t, fake)

	called := false
	err := Prefetch(context.Background(), "https://x/a.png", func(id RequestID) {
		called = true
		assert.Empty(t, fake.prefetched, "onRequestID must run before the loader is invoked")
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestPrefetchWithoutCallback(t *testing.T) {
	fake := &fakeLoader{}
	withFakeLoader(t, fake)

	require.NoError(t, Prefetch(context.Background(), "https://x/a.png", nil))
	require.Len(t, fake.prefetched, 1)
}

func TestPrefetchReturnsLoaderError(t *testing.T) {
	loadErr := errors.New("network request failed")
	fake := &fakeLoader{prefetchErr: loadErr}
	withFakeLoader(t, fake)

	var issued RequestID
	err := Prefetch(context.Background(), "https://x/a.png", func(id RequestID) { issued = id })

	assert.ErrorIs(t, err, loadErr)
	assert.NotZero(t, issued, "the id is issued even when the fetch fails")
}

func TestGetSizeSuccess(t *testing.T) {
	fake := &fakeLoader{sizes: map[string]Size{
		"https://x/a.png": {Width: 640, Height: 480},
	}}
	withFakeLoader(t, fake)

	var gotW, gotH float32
	GetSize(context.Background(), "https://x/a.png",
		func(w, h float32) { gotW, gotH = w, h },
		func(err error) { t.Fatalf("unexpected failure: %v", err) },
	)

	assert.Equal(t, float32(640), gotW)
	assert.Equal(t, float32(480), gotH)
}

func TestGetSizeFailure(t *testing.T) {
	sizeErr := errors.New("failed to decode image")
	fake := &fakeLoader{sizeErr: sizeErr}
	withFakeLoader(t, fake)

	var got error
	GetSize(context.Background(), "https://x/a.png",
		func(w, h float32) { t.Fatal("success callback must not run on failure") },
		func(err error) { got = err },
	)

	assert.ErrorIs(t, got, sizeErr)
}

func TestGetSizeFailureWithoutCallbackWarns(t *testing.T) {
	hook := captureLogs(t)
	fake := &fakeLoader{sizeErr: errors.New("failed to decode image")}
	withFakeLoader(t, fake)

	GetSize(context.Background(), "https://x/a.png", nil, nil)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAbortPrefetchDelegates(t *testing.T) {
	fake := &fakeLoader{}
	withFakeLoader(t, fake)

	AbortPrefetch(RequestID(42))
	AbortPrefetch(RequestID(42)) // aborting twice is the loader's business

	assert.Equal(t, []RequestID{42, 42}, fake.aborted)
}

func TestQueryCacheOmitsUncachedURLs(t *testing.T) {
	fake := &fakeLoader{cache: map[string]CacheLocation{
		"u1": CacheDisk,
	}}
	withFakeLoader(t, fake)

	result, err := QueryCache(context.Background(), []string{"u1", "u2"})

	require.NoError(t, err)
	assert.Equal(t, map[string]CacheLocation{"u1": CacheDisk}, result)
	_, cached := result["u2"]
	assert.False(t, cached)
}

func TestQueryCacheError(t *testing.T) {
	cacheErr := errors.New("loader not initialized")
	fake := &fakeLoader{cacheErr: cacheErr}
	withFakeLoader(t, fake)

	result, err := QueryCache(context.Background(), []string{"u1"})

	assert.ErrorIs(t, err, cacheErr)
	assert.Nil(t, result)
}
