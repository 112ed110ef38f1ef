package registry

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"screener/normalization"
)

const (
	// defaultMaxDepth предельная глубина рекурсивного обхода учредителей
	defaultMaxDepth = 5

	// ownershipSumTolerance допустимое отклонение суммы долей от 100%
	ownershipSumTolerance = 0.1
)

// Терминальные исходы обхода: успешные результаты, а не ошибки
const (
	TerminalDepthExceeded = "depth_exceeded"
	TerminalCycleDetected = "cycle_detected"
)

// Node узел дерева владения
type Node struct {
	ID               string    `json:"id"`
	Name             *string   `json:"name,omitempty"`
	NormalizedName   *string   `json:"normalized_name,omitempty"`
	IsForeign        bool      `json:"is_foreign,omitempty"`
	Jurisdiction     string    `json:"jurisdiction,omitempty"`
	CEO              *string   `json:"ceo,omitempty"`
	RegistrationDate *string   `json:"registration_date,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Founders         []Edge    `json:"founders"`
	Terminal         *Terminal `json:"terminal,omitempty"`
}

// Terminal диагностика остановки обхода: превышение глубины или цикл.
// Несёт идентификатор и цепочку посещённых узлов.
type Terminal struct {
	Reason     string   `json:"reason"`
	VisitedIDs []string `json:"visited_ids"`
}

// Edge связь «узел — учредитель»
type Edge struct {
	Owner               string   `json:"owner"`           // транслитерированное имя
	OriginalName        string   `json:"original_name"`
	CleanName           string   `json:"clean_name"`      // нормализованное имя
	ID                  string   `json:"id,omitempty"`
	IsCompany           bool     `json:"is_company"`
	OwnershipPercentage *float64 `json:"ownership_percentage,omitempty"`
	Company             *Node    `json:"company,omitempty"` // поддерево для учредителей-компаний
}

// Resolution контекст одного верхнеуровневого разрешения: посещённые
// идентификаторы и текущая глубина. Контекст копируется при спуске к
// учредителю, поэтому ветви-сёстры не видят посещений друг друга —
// обнаруживаются только циклы по цепочке предков.
type Resolution struct {
	Visited map[string]bool
	Depth   int
}

func newResolution() *Resolution {
	return &Resolution{Visited: make(map[string]bool)}
}

// child создает копию контекста для рекурсивного спуска
func (r *Resolution) child() *Resolution {
	visited := make(map[string]bool, len(r.Visited)+1)
	for id := range r.Visited {
		visited[id] = true
	}
	return &Resolution{Visited: visited, Depth: r.Depth + 1}
}

func (r *Resolution) visitedIDs() []string {
	ids := make([]string, 0, len(r.Visited))
	for id := range r.Visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolver рекурсивный обходчик реестра
type Resolver struct {
	client   *Client
	logger   *slog.Logger
	maxDepth int
}

// NewResolver создает обходчик. maxDepth <= 0 заменяется значением
// по умолчанию.
func NewResolver(client *Client, maxDepth int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Resolver{client: client, logger: logger, maxDepth: maxDepth}
}

// Resolve разрешает дерево владения для идентификатора. Каждый вызов
// получает свежий контекст: состояние между запросами не разделяется.
// Возвращает nil без ошибки, если карточка не содержит ни имени,
// ни учредителей.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Node, error) {
	return r.resolve(ctx, id, newResolution())
}

func (r *Resolver) resolve(ctx context.Context, id string, res *Resolution) (*Node, error) {
	if id == "" {
		return nil, nil
	}

	// Защита от бесконечной рекурсии и циклического владения
	if res.Depth >= r.maxDepth {
		return &Node{
			ID:       id,
			Founders: []Edge{},
			Terminal: &Terminal{Reason: TerminalDepthExceeded, VisitedIDs: res.visitedIDs()},
		}, nil
	}
	if res.Visited[id] {
		return &Node{
			ID:       id,
			Founders: []Edge{},
			Terminal: &Terminal{Reason: TerminalCycleDetected, VisitedIDs: res.visitedIDs()},
		}, nil
	}
	res.Visited[id] = true

	// Нечисловые идентификаторы — иностранные компании вне реестра,
	// сетевой запрос для них не выполняется
	if !isNumeric(id) {
		return &Node{
			ID:           id,
			IsForeign:    true,
			Jurisdiction: ExtractJurisdiction(id),
			Founders:     []Edge{},
		}, nil
	}

	doc, err := r.client.FetchEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	page := parseCompanyPage(doc)
	node := &Node{ID: id, Founders: []Edge{}}

	if page.Name != "" {
		name := normalization.ApplyAbbreviations(page.Name)
		normalized := normalization.Normalize(page.Name)
		node.Name = &name
		node.NormalizedName = &normalized
	}
	if page.RegistrationDate != "" {
		node.RegistrationDate = &page.RegistrationDate
	}
	if page.Address != "" {
		node.Address = &page.Address
	}
	if page.CEO != "" {
		ceo := normalization.Transliterate(page.CEO)
		node.CEO = &ceo
	}

	totalOwnership := 0.0
	for _, founder := range page.Founders {
		edge := Edge{
			Owner:               normalization.Transliterate(founder.Name),
			OriginalName:        founder.Name,
			CleanName:           normalization.Normalize(founder.Name),
			ID:                  founder.ID,
			IsCompany:           normalization.IsCompanyName(founder.Name),
			OwnershipPercentage: founder.Percentage,
		}
		if founder.Percentage != nil {
			totalOwnership += *founder.Percentage
		}

		if edge.IsCompany && isNumeric(founder.ID) {
			child, err := r.resolve(ctx, founder.ID, res.child())
			if err != nil {
				// Сбой ветви не прерывает разбор остальных учредителей
				r.logger.Error("failed to resolve founder", "id", founder.ID, "error", err)
			} else {
				edge.Company = child
			}
		}

		node.Founders = append(node.Founders, edge)
	}

	if len(page.Founders) > 0 && math.Abs(totalOwnership-100.0) > ownershipSumTolerance {
		r.logger.Warn("total ownership differs from 100%",
			"id", id,
			"total", totalOwnership)
	}

	if node.Name == nil && len(node.Founders) == 0 {
		return nil, nil
	}

	return node, nil
}

// isNumeric сообщает, состоит ли идентификатор только из цифр
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
