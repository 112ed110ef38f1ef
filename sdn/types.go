package sdn

import "time"

// Record каноническая запись санкционного списка. После разбора
// снапшота запись неизменяема и идентифицируется по UID.
type Record struct {
	UID         string    `json:"uid"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	AKANames    []string  `json:"aka_names,omitempty"`
	Addresses   []Address `json:"addresses,omitempty"`
	Programs    []string  `json:"programs,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	IDs         []ID      `json:"ids,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
}

// Address адрес из санкционной записи
type Address struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// ID идентификатор субъекта (ИНН, SWIFT/BIC, БИК и т.п.)
type ID struct {
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
}

// Snapshot упорядоченный набор записей с моментом загрузки.
// Снапшот заменяется целиком: читатели видят либо старый,
// либо новый набор, но никогда частичный.
type Snapshot struct {
	Records  []Record
	LoadedAt time.Time
}

// MatchEntry проекция записи в результате поиска
type MatchEntry struct {
	Name       string  `json:"name"`
	AKANames   []string `json:"aka_names"`
	IDs        []ID    `json:"ids"`
	MatchScore float64 `json:"match_score"`
}

// SearchResult итог поиска по списку
type SearchResult struct {
	AverageMatchScore float64      `json:"average_match_score"`
	Results           []MatchEntry `json:"results"`
}
