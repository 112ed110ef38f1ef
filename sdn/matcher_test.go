package sdn

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T, records []Record) *Matcher {
	t.Helper()
	cache := NewCache(t.TempDir(), "http://unused", 5*time.Second, time.Millisecond, nil)
	require.NoError(t, cache.writeMaterialized(records))
	return NewMatcher(cache, nil)
}

// Тесты для Matcher.Search
func TestSearch_EmptyQuery(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Acme Trading LLC"}})

	result := matcher.Search("")
	assert.Equal(t, 0.0, result.AverageMatchScore)
	assert.Empty(t, result.Results)
}

func TestSearch_ExactByTokenContainment(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Acme Trading LLC"}})

	result := matcher.Search("acme trading")
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1.0, result.Results[0].MatchScore)
	assert.Equal(t, 1.0, result.AverageMatchScore)
	assert.Equal(t, "Acme Trading LLC", result.Results[0].Name)
}

func TestSearch_FuzzyTypo(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Acme Trading LLC"}})

	// Опечатка: токен "tradimg" не содержится в имени, но схожесть выше порога
	result := matcher.Search("acme tradimg llc")
	require.Len(t, result.Results, 1)
	score := result.Results[0].MatchScore
	assert.GreaterOrEqual(t, score, fuzzyMatchThreshold)
	assert.Less(t, score, 1.0)
	assert.Equal(t, score, result.AverageMatchScore)
}

func TestSearch_BelowThresholdExcluded(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Acme Trading LLC"}})

	// Схожесть "acmme tradng" с именем ниже 0.85, вхождения токенов нет
	result := matcher.Search("acmme tradng")
	assert.Empty(t, result.Results)
	assert.Equal(t, 0.0, result.AverageMatchScore)
}

func TestSearch_ExactByAKA(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{
		UID:      "1",
		Name:     "Horizon Shipping Co",
		AKANames: []string{"Acme Trading"},
	}})

	result := matcher.Search("acme trading")
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1.0, result.Results[0].MatchScore)
}

func TestSearch_ExactByAllowedID(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{
		UID:  "1",
		Name: "Horizon Shipping Co",
		IDs: []ID{
			{IDType: "SWIFT/BIC", IDNumber: "ABCDRUMM"},
		},
	}})

	result := matcher.Search("abcdrumm")
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1.0, result.Results[0].MatchScore)
	assert.Equal(t, 1.0, result.AverageMatchScore)
}

func TestSearch_DisallowedIDTypeIgnored(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{
		UID:  "1",
		Name: "Horizon Shipping Co",
		IDs: []ID{
			{IDType: "Passport", IDNumber: "ABCDRUMM"},
		},
	}})

	result := matcher.Search("abcdrumm")
	assert.Empty(t, result.Results)
}

func TestSearch_ExactDominatesAverage(t *testing.T) {
	matcher := newTestMatcher(t, []Record{
		{UID: "1", Name: "Acme Trading LLC"},
		{UID: "2", Name: "Acme Trading Group"},
	})

	// Первый — точное вхождение токенов, второй — тоже (оба содержат токены)
	result := matcher.Search("acme trading")
	require.NotEmpty(t, result.Results)
	assert.Equal(t, 1.0, result.AverageMatchScore)
}

func TestSearch_SortedByScoreDescending(t *testing.T) {
	matcher := newTestMatcher(t, []Record{
		{UID: "1", Name: "Acme Tradimg LLC"}, // только нечёткое совпадение
		{UID: "2", Name: "Acme Trading LLC"}, // точное
	})

	result := matcher.Search("acme trading llc")
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Acme Trading LLC", result.Results[0].Name)
	assert.GreaterOrEqual(t, result.Results[0].MatchScore, result.Results[1].MatchScore)
}

func TestSearch_CyrillicQueryTransliterated(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Romashka OOO"}})

	// Кириллический запрос сводится в латинское пространство сравнения
	result := matcher.Search("Ромашка")
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1.0, result.Results[0].MatchScore)
}

func TestSearch_ParentheticalStripped(t *testing.T) {
	matcher := newTestMatcher(t, []Record{{UID: "1", Name: "Acme Trading LLC"}})

	result := matcher.Search(`acme trading (formerly "Acme Group")`)
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1.0, result.Results[0].MatchScore)
}

// Тесты для Matcher.Invalidate
func TestMatcher_InvalidateForcesReload(t *testing.T) {
	cache := NewCache(t.TempDir(), "http://unused", 5*time.Second, time.Millisecond, nil)
	require.NoError(t, cache.writeMaterialized([]Record{{UID: "1", Name: "Acme Trading LLC"}}))

	matcher := NewMatcher(cache, nil)
	require.Len(t, matcher.Search("acme trading").Results, 1)

	require.NoError(t, cache.writeMaterialized([]Record{
		{UID: "1", Name: "Acme Trading LLC"},
		{UID: "2", Name: "Acme Trading Group"},
	}))
	matcher.Invalidate()

	assert.Len(t, matcher.Search("acme trading").Results, 2)
}

func BenchmarkSearch(b *testing.B) {
	gofakeit.Seed(42)

	records := make([]Record, 0, 1000)
	for i := 0; i < 1000; i++ {
		records = append(records, Record{
			UID:  fmt.Sprintf("%d", i),
			Name: gofakeit.Company(),
		})
	}

	cache := NewCache(b.TempDir(), "http://unused", 5*time.Second, time.Millisecond, nil)
	if err := cache.writeMaterialized(records); err != nil {
		b.Fatal(err)
	}
	matcher := NewMatcher(cache, nil)
	matcher.Search("warm up")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.Search("acme trading")
	}
}
