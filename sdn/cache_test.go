package sdn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "screener/server/errors"
)

func newTestCache(t *testing.T, sourceURL string) *Cache {
	t.Helper()
	return NewCache(t.TempDir(), sourceURL, 5*time.Second, time.Millisecond, nil)
}

// Тесты для Cache.Refresh
func TestCacheRefresh_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleXML))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	err := cache.Refresh(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(cache.rawPath())
	require.NoError(t, err)
	assert.Equal(t, sampleXML, string(raw))
}

func TestCacheRefresh_NonXMLPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": "json"}`))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	err := cache.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindFormat))
}

func TestCacheRefresh_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	err := cache.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindFetch))
}

func TestCacheRefresh_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	// Первый ответ корректный, второй — мусор
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(sampleXML))
			return
		}
		w.Write([]byte("garbage"))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)

	require.NoError(t, cache.Refresh(context.Background()))
	require.Error(t, cache.Refresh(context.Background()))

	// Последний корректный документ остался на месте
	raw, err := os.ReadFile(cache.rawPath())
	require.NoError(t, err)
	assert.Equal(t, sampleXML, string(raw))
}

func TestCacheRefresh_InvalidatesMaterializedCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleXML))
	}))
	defer server.Close()

	cache := newTestCache(t, server.URL)
	require.NoError(t, cache.writeMaterialized([]Record{{UID: "stale"}}))

	require.NoError(t, cache.Refresh(context.Background()))

	_, err := os.Stat(cache.cachePath())
	assert.True(t, os.IsNotExist(err), "materialized cache must be deleted after refresh")
}

// Тесты для Cache.IsFresh
func TestCacheIsFresh_Window(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	require.NoError(t, cache.writeMaterialized([]Record{}))

	// T+23h59m — свежий
	almostExpired := time.Now().Add(-cacheExpiry + time.Minute)
	require.NoError(t, os.Chtimes(cache.cachePath(), almostExpired, almostExpired))
	assert.True(t, cache.IsFresh())

	// T+24h01m — устаревший
	expired := time.Now().Add(-cacheExpiry - time.Minute)
	require.NoError(t, os.Chtimes(cache.cachePath(), expired, expired))
	assert.False(t, cache.IsFresh())
}

func TestCacheIsFresh_MissingFile(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	assert.False(t, cache.IsFresh())
}

// Тесты для Cache.LoadOrParse
func TestCacheLoadOrParse_ParsesRawDocument(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	require.NoError(t, os.MkdirAll(cache.dataDir, 0o755))
	require.NoError(t, os.WriteFile(cache.rawPath(), []byte(sampleXML), 0o644))

	records := cache.LoadOrParse()
	require.Len(t, records, 3)

	// Материализованный кэш должен появиться
	_, err := os.Stat(cache.cachePath())
	assert.NoError(t, err)
}

func TestCacheLoadOrParse_UsesFreshMaterialized(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	require.NoError(t, cache.writeMaterialized([]Record{{UID: "7", Name: "Cached Entity"}}))

	records := cache.LoadOrParse()
	require.Len(t, records, 1)
	assert.Equal(t, "Cached Entity", records[0].Name)
}

func TestCacheLoadOrParse_DegradesToEmptyOnParseError(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	require.NoError(t, os.MkdirAll(cache.dataDir, 0o755))
	require.NoError(t, os.WriteFile(cache.rawPath(), []byte("broken document"), 0o644))

	records := cache.LoadOrParse()
	assert.Empty(t, records)
}

func TestCacheLoadOrParse_MissingEverything(t *testing.T) {
	cache := newTestCache(t, "http://unused")
	assert.Empty(t, cache.LoadOrParse())
}
