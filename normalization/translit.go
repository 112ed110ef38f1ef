package normalization

import "strings"

// translitTable обратная транслитерация кириллицы в латиницу.
// Схема соответствует «reversed»-варианту русской транслитерации,
// дополненному узбекскими кириллическими буквами.
var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "e", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "ju", 'я': "ja",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "E", 'Ж': "Zh", 'З': "Z", 'И': "I",
	'Й': "J", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "H", 'Ц': "C", 'Ч': "Ch",
	'Ш': "Sh", 'Щ': "Sch", 'Ъ': "", 'Ы': "Y", 'Ь': "",
	'Э': "E", 'Ю': "Ju", 'Я': "Ja",
	// Узбекская кириллица
	'ў': "o'", 'қ': "q", 'ғ': "g'", 'ҳ': "h",
	'Ў': "O'", 'Қ': "Q", 'Ғ': "G'", 'Ҳ': "H",
	// Украинские и прочие буквы основного кириллического блока
	'і': "i", 'І': "I", 'ї': "i", 'Ї': "I", 'є': "e", 'Є': "E",
}

// ContainsCyrillic сообщает, содержит ли строка хотя бы один символ
// основного кириллического блока (U+0400–U+04FF).
func ContainsCyrillic(s string) bool {
	for _, r := range s {
		if r >= 0x0400 && r <= 0x04FF {
			return true
		}
	}
	return false
}

// Transliterate переводит кириллицу в латиницу по фиксированной таблице.
// Строки без кириллицы возвращаются без изменений. Функция никогда не
// завершается ошибкой: символы вне таблицы копируются как есть.
func Transliterate(s string) string {
	if !ContainsCyrillic(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := translitTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
