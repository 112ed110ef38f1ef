package sdn

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"screener/normalization"
)

// fuzzyMatchThreshold минимальная схожесть для нечёткого совпадения.
// Порог зафиксирован как бизнес-правило, а не параметр развертывания.
const fuzzyMatchThreshold = 0.85

// allowedIDTypes типы идентификаторов, по которым допускается точное
// совпадение: слабо структурированные поля (паспорта, адреса) дают
// ложные «точные» попадания и потому исключены.
var allowedIDTypes = map[string]bool{
	"Tax ID No.": true,
	"SWIFT/BIC":  true,
	"BIK (RU)":   true,
}

var parentheticalPattern = regexp.MustCompile(`\(.*?\)`)

// Matcher движок поиска по санкционному списку. Снапшот записей
// заменяется целиком под RWMutex: конкурентные читатели во время
// обновления видят либо старый, либо новый набор.
type Matcher struct {
	cache  *Cache
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewMatcher создает движок поиска поверх кэша списка
func NewMatcher(cache *Cache, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{cache: cache, logger: logger}
}

// Records возвращает текущий набор записей, при необходимости
// перечитывая кэш (устаревший снапшот заменяется целиком).
func (m *Matcher) Records() []Record {
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()

	if snap != nil && time.Since(snap.LoadedAt) < cacheExpiry && m.cache.IsFresh() {
		return snap.Records
	}

	records := m.cache.LoadOrParse()
	fresh := &Snapshot{Records: records, LoadedAt: time.Now()}

	m.mu.Lock()
	m.snapshot = fresh
	m.mu.Unlock()

	return records
}

// Invalidate сбрасывает снапшот в памяти; следующий поиск перечитает кэш
func (m *Matcher) Invalidate() {
	m.mu.Lock()
	m.snapshot = nil
	m.mu.Unlock()
}

// Search ищет запрос по санкционному списку. Точные совпадения
// (полная схожесть либо вхождение всех токенов запроса в имя, псевдоним
// или разрешённый идентификатор) получают балл 1.0 и доминируют в
// итоговой средней оценке; нечёткие совпадения проходят по порогу 0.85.
func (m *Matcher) Search(query string) SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return SearchResult{AverageMatchScore: 0.0, Results: []MatchEntry{}}
	}

	// Пояснения в скобках и кавычки не участвуют в сопоставлении
	query = parentheticalPattern.ReplaceAllString(query, "")
	query = strings.ReplaceAll(query, `"`, "")
	query = strings.TrimSpace(query)

	foldedQuery := normalization.Fold(query)
	tokens := strings.Fields(foldedQuery)

	results := []MatchEntry{}
	totalScore := 0.0
	hasExactMatch := false

	for _, record := range m.Records() {
		entry, matched, exact := checkRecordMatch(record, foldedQuery, tokens)
		if !matched {
			continue
		}
		results = append(results, entry)
		totalScore += entry.MatchScore
		if exact {
			hasExactMatch = true
		}
	}

	averageScore := 0.0
	switch {
	case hasExactMatch:
		averageScore = 1.0
	case len(results) > 0:
		averageScore = totalScore / float64(len(results))
	}

	// Стабильная сортировка: при равных баллах сохраняется порядок списка
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return SearchResult{AverageMatchScore: averageScore, Results: results}
}

// checkRecordMatch проверяет одну запись против запроса
func checkRecordMatch(record Record, query string, tokens []string) (MatchEntry, bool, bool) {
	name := normalization.Fold(record.Name)

	akaNames := make([]string, 0, len(record.AKANames))
	for _, aka := range record.AKANames {
		akaNames = append(akaNames, normalization.Fold(aka))
	}

	var allowedIDs []ID
	for _, id := range record.IDs {
		if allowedIDTypes[id.IDType] {
			allowedIDs = append(allowedIDs, id)
		}
	}

	bestScore := SequenceRatio(query, name)
	for _, aka := range akaNames {
		if score := SequenceRatio(query, aka); score > bestScore {
			bestScore = score
		}
	}

	isExact := bestScore == 1.0 ||
		allTokensContained(tokens, name) ||
		anyContainsAllTokens(tokens, akaNames) ||
		anyIDContainsAllTokens(tokens, allowedIDs)

	if !isExact && bestScore < fuzzyMatchThreshold {
		return MatchEntry{}, false, false
	}

	score := bestScore
	if isExact {
		score = 1.0
	}

	entry := MatchEntry{
		Name:       record.Name,
		AKANames:   record.AKANames,
		IDs:        allowedIDs,
		MatchScore: score,
	}
	if entry.AKANames == nil {
		entry.AKANames = []string{}
	}
	if entry.IDs == nil {
		entry.IDs = []ID{}
	}

	return entry, true, isExact
}

func allTokensContained(tokens []string, s string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !strings.Contains(s, token) {
			return false
		}
	}
	return true
}

func anyContainsAllTokens(tokens []string, candidates []string) bool {
	for _, candidate := range candidates {
		if allTokensContained(tokens, candidate) {
			return true
		}
	}
	return false
}

func anyIDContainsAllTokens(tokens []string, ids []ID) bool {
	for _, id := range ids {
		if allTokensContained(tokens, normalization.Fold(id.IDNumber)) {
			return true
		}
	}
	return false
}
