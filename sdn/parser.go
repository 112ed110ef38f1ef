package sdn

import (
	"encoding/xml"
	"strings"
)

// Теги заданы локальными именами без привязки к пространству имён:
// encoding/xml сопоставляет их элементам документа с любым префиксом,
// поэтому документ с namespace и без разбираются одинаково.
type sdnDocument struct {
	Entries []sdnEntry `xml:"sdnEntry"`
}

type sdnEntry struct {
	UID        string       `xml:"uid"`
	FirstName  string       `xml:"firstName"`
	MiddleName string       `xml:"middleName"`
	LastName   string       `xml:"lastName"`
	SDNType    string       `xml:"sdnType"`
	AKAs       []sdnAKA     `xml:"akaList>aka"`
	Addresses  []sdnAddress `xml:"addressList>address"`
	Programs   []string     `xml:"programList>program"`
	DOBs       []string     `xml:"dateOfBirthList>dateOfBirthItem>dateOfBirth"`
	IDs        []sdnID      `xml:"idList>id"`
	Remarks    string       `xml:"remarks"`
}

type sdnAKA struct {
	LastName string `xml:"lastName"`
}

type sdnAddress struct {
	City    string `xml:"city"`
	Country string `xml:"country"`
}

type sdnID struct {
	IDType   string `xml:"idType"`
	IDNumber string `xml:"idNumber"`
}

// ParseRecords разбирает XML документ санкционного списка в канонические
// записи. Каждое поле заполняется защитно: отсутствующий подэлемент даёт
// пустое значение, а не ошибку разбора. Запись без имени не отбрасывается —
// она всё равно попадает в результат.
func ParseRecords(raw []byte) ([]Record, error) {
	var doc sdnDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		record := Record{
			UID:     strings.TrimSpace(entry.UID),
			Name:    joinNameParts(entry.FirstName, entry.MiddleName, entry.LastName),
			Type:    strings.TrimSpace(entry.SDNType),
			Remarks: strings.TrimSpace(entry.Remarks),
		}

		for _, aka := range entry.AKAs {
			if name := strings.TrimSpace(aka.LastName); name != "" {
				record.AKANames = append(record.AKANames, name)
			}
		}

		for _, addr := range entry.Addresses {
			record.Addresses = append(record.Addresses, Address{
				City:    strings.TrimSpace(addr.City),
				Country: strings.TrimSpace(addr.Country),
			})
		}

		for _, program := range entry.Programs {
			if program = strings.TrimSpace(program); program != "" {
				record.Programs = append(record.Programs, program)
			}
		}

		if len(entry.DOBs) > 0 {
			record.DateOfBirth = strings.TrimSpace(entry.DOBs[0])
		}

		for _, id := range entry.IDs {
			record.IDs = append(record.IDs, ID{
				IDType:   strings.TrimSpace(id.IDType),
				IDNumber: strings.TrimSpace(id.IDNumber),
			})
		}

		records = append(records, record)
	}

	return records, nil
}

// joinNameParts собирает полное имя из частей, пропуская пустые
func joinNameParts(parts ...string) string {
	var nonEmpty []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}
