package registry

import "strings"

// jurisdictionEntry сопоставляет суффикс организационно-правовой формы
// со страной регистрации. Порядок значим: более специфичные суффиксы
// проверяются раньше коротких.
type jurisdictionEntry struct {
	Suffix  string
	Country string
}

var jurisdictionTable = []jurisdictionEntry{
	{"S.P.A.", "Italy"},
	{"GMBH", "Germany"},
	{"B.V.", "Netherlands"},
	{"N.V.", "Netherlands/Belgium"},
	{"LTD", "UK"},
	{"INC", "USA"},
	{"LLC", "USA"},
	{"AG", "Germany/Switzerland"},
	{"SA", "Multiple"},
}

// ExtractJurisdiction выводит юрисдикцию по суффиксу ОПФ в наименовании
// или идентификаторе иностранной компании. Неопознанный суффикс даёт
// "Unknown".
func ExtractJurisdiction(label string) string {
	upper := strings.ToUpper(label)
	for _, entry := range jurisdictionTable {
		if strings.Contains(upper, entry.Suffix) {
			return entry.Country
		}
	}
	return "Unknown"
}
