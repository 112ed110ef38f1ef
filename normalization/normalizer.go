// Package normalization канонизирует наименования юридических лиц:
// транслитерация кириллицы, свёртка организационно-правовых форм
// к стандартным аббревиатурам и очистка от служебных символов.
// Все функции чистые, без ввода-вывода, безопасны для конкурентного вызова.
package normalization

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer раскладывает строку в NFD, удаляет комбинирующие
// диакритические знаки и собирает результат обратно в NFC.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ApplyAbbreviations заменяет полные наименования ОПФ каноническими
// аббревиатурами (без учёта регистра, в порядке таблицы), затем удаляет
// оставшиеся свободно стоящие обозначения ОПФ и чистит строку от кавычек,
// слэшей и лишних пробелов.
func ApplyAbbreviations(name string) string {
	if name == "" {
		return name
	}

	for i, entry := range entityAbbreviations {
		name = abbreviationPatterns[i].ReplaceAllString(name, entry.Abbr)
	}

	return cleanup(stripToFixpoint(stripLabelPattern, name))
}

// CleanName агрессивный вариант очистки для полей платёжных сообщений:
// в отличие от ApplyAbbreviations удаляет и канонические аббревиатуры,
// оставляя только собственное имя контрагента.
func CleanName(name string) string {
	if name == "" {
		return name
	}

	for i, entry := range entityAbbreviations {
		name = abbreviationPatterns[i].ReplaceAllString(name, entry.Abbr)
	}

	return cleanup(stripToFixpoint(cleanLabelPattern, name))
}

// Normalize приводит наименование к канонической форме: свёртка ОПФ,
// затем транслитерация в латиницу. Идемпотентна; пустая строка
// возвращается пустой, ошибок не бывает ни на каком входе.
func Normalize(name string) string {
	if name == "" {
		return name
	}
	return Transliterate(ApplyAbbreviations(name))
}

// IsCompanyName сообщает, похоже ли наименование на организацию:
// верхний регистр строки содержит хотя бы один индикатор ОПФ.
// Для пустой строки всегда false.
func IsCompanyName(name string) bool {
	if name == "" {
		return false
	}

	upper := strings.ToUpper(name)
	for _, indicator := range companyIndicators {
		if strings.Contains(upper, indicator) {
			return true
		}
	}
	return false
}

// Fold переводит строку в пространство сравнения движка поиска:
// транслитерация, нижний регистр, удаление диакритики.
func Fold(s string) string {
	s = strings.ToLower(Transliterate(s))
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// stripToFixpoint применяет шаблон удаления ОПФ до стабилизации строки.
// Границы в шаблоне поглощают разделитель, поэтому за один проход из двух
// соседних обозначений («ООО ЗАО Ромашка») удаляется только первое;
// повтор до неподвижной точки убирает оставшиеся. Каждая замена строго
// укорачивает строку, так что цикл конечен.
func stripToFixpoint(pattern *regexp.Regexp, name string) string {
	for {
		replaced := pattern.ReplaceAllString(name, "$1$2")
		if replaced == name {
			return replaced
		}
		name = replaced
	}
}

func cleanup(name string) string {
	name = unwantedCharPattern.ReplaceAllString(name, "")
	name = whitespacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
