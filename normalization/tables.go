package normalization

import (
	"regexp"
	"strings"
)

// abbreviationEntry связывает полное наименование ОПФ с канонической аббревиатурой.
// Порядок записей значим: более длинные формы должны обрабатываться раньше
// коротких, чтобы «Закрытое акционерное общество» не превращалось в «ЗАО общество».
type abbreviationEntry struct {
	Full string
	Abbr string
}

// entityAbbreviations упорядоченная таблица «полная форма -> аббревиатура»
// для русских, английских и узбекских организационно-правовых форм.
var entityAbbreviations = []abbreviationEntry{
	// Русский (кириллица и латиница)
	{"Общество с ограниченной ответственностью", "ООО"},
	{"Obshchestvo s ogranichennoy otvetstvennostyu", "OOO"},
	{"МЕЖДУНАРОДНАЯ КОМПАНИЯ ПУБЛИЧНОЕ АКЦИОНЕРНОЕ ОБЩЕСТВО", "MKPAO"},
	{"MEZhDUNARODNAYa KOMPANIYa PUBLIChNOE AKTsIONERNOE OBShchESTVO", "MKPAO"},
	{"Закрытое акционерное общество", "ЗАО"},
	{"Zakrytoe aktsionernoe obshchestvo", "ZAO"},
	{"Открытое акционерное общество", "ОАО"},
	{"Otkrytoe aktsionernoe obshchestvo", "OAO"},
	{"Публичное акционерное общество", "ПАО"},
	{"Publichnoe aktsionernoe obshchestvo", "PAO"},
	{"Акционерное общество", "АО"},
	{"Aktsionernoe obshchestvo", "AO"},
	{"AKTsIONERNAJa KOMPANIJa", "АО"},
	{"Индивидуальный предприниматель", "ИП"},
	{"Individual’nyy predprinimatel'", "IP"},
	{"Некоммерческая организация", "НКО"},
	{"Nekommercheskaya organizatsiya", "NKO"},
	{"Государственное унитарное предприятие", "ГУП"},
	{"Gosudarstvennoe unitarnoe predpriyatie", "GUP"},
	{"Частное предприятие", "ЧП"},
	{"Chastnoe predpriyatie", "ChP"},
	{"OBSchESTVO S OGRANIChENNOJ OTVETSTVENNOST'Ju", "ООО"},
	// Английский
	{"Limited Liability Company", "LLC"},
	{"Limited Liability Partnership", "LLP"},
	{"Public Limited Company", "Plc"},
	{"Sole Proprietorship", "Sole Prop."},
	{"Non-Governmental Organization", "NGO"},
	{"Non-Profit Organization", "NPO"},
	{"Incorporated", "Inc"},
	{"Corporation", "Corp"},
	{"Limited", "Ltd"},
	{"Company", "Co."},
	{"Société Anonyme", "SA"},
	{"Gesellschaft mit beschränkter Haftung", "GmbH"},
	{"Aktiengesellschaft", "AG"},
	// Узбекский (кириллица и латиница)
	{"Масъулияти чекланган жамият", "МЧЖ"},
	{"Masʼuliyati cheklangan jamiyat", "MChJ"},
	{"MAS`ULIYATI CHEKLANGAN JAMIYAT", "MChJ"},
	{"Акциядорлик жамияти", "АЖ"},
	{"Aktsiyadorlik jamiyati", "AJ"},
	{"Якка тартибдаги тадбиркор", "ЙТТ"},
	{"Yakka tartibdagi tadbirkor", "YTT"},
	{"Давлат унитар корхонаси", "ДУК"},
	{"Davlat unitar korxonasi", "DUK"},
	{"Фуқароларнинг масъулияти чекланган жамияти", "ФМШЖ"},
	{"Fuqarolarning masʼuliyati cheklangan jamiyati", "FMShJ"},
	{"Крестьянское фермерское хозяйство", "КФХ"},
	{"Dehqon fermer xoʻjaligi", "KFX"},
	{"Тадбиркорлик шерикчилиги жамияти", "ТШЖ"},
	{"Tadbirkorlik sherikchiligi jamiyati", "TShJ"},
	{"Хусусий корхона", "ХК"},
	{"Xususiy korxona", "XK"},
}

// entityLabels свободно стоящие обозначения ОПФ, которые подлежат удалению,
// если не являются каноническими аббревиатурами из таблицы выше.
var entityLabels = []string{
	// Русский
	"ООО", "OOO", "Общество с ограниченной ответственностью",
	"Obshchestvo s ogranichennoy otvetstvennostyu",
	"ЗАО", "ZAO", "Закрытое акционерное общество", "Zakrytoe aktsionernoe obshchestvo",
	"МЕЖДУНАРОДНАЯ КОМПАНИЯ ПУБЛИЧНОЕ АКЦИОНЕРНОЕ ОБЩЕСТВО",
	"ОАО", "OAO", "Открытое акционерное общество", "Otkrytoe aktsionernoe obshchestvo",
	"MKPAO",
	"АО", "AO", "Акционерное общество", "Aktsionernoe obshchestvo", "AKTsIONERNAJa KOMPANIJa",
	"ПАО", "PAO", "Публичное акционерное общество", "Publichnoe aktsionernoe obshchestvo",
	"ИП", "IP", "Индивидуальный предприниматель", "Individual’nyy predprinimatel'",
	"MEZhDUNARODNAYa KOMPANIYa PUBLIChNOE AKTsIONERNOE OBShchESTVO",
	"ГУП", "GUP", "Государственное унитарное предприятие", "Gosudarstvennoe unitarnoe predpriyatie",
	"ЧП", "ChP", "Частное предприятие", "Chastnoe predpriyatie",
	"OBSchESTVO S OGRANIChENNOJ OTVETSTVENNOST'Ju",
	// Английский
	"LLC", "Limited Liability Company",
	"Inc", "Incorporated",
	"Corp", "Corporation",
	"Ltd", "Limited",
	"Plc", "Public Limited Company",
	"LLP", "Limited Liability Partnership",
	"Sole Prop.", "Sole Proprietorship",
	"NGO", "Non-Governmental Organization",
	"NPO", "Non-Profit Organization",
	"Co.", "Company",
	"SA", "Société Anonyme",
	"GmbH", "Gesellschaft mit beschränkter Haftung",
	"AG", "Aktiengesellschaft",
	// Узбекский
	"МЧЖ", "MChJ", "Масъулияти чекланган жамият", "Masʼuliyati cheklangan jamiyat",
	"MAS`ULIYATI CHEKLANGAN JAMIYAT",
	"АЖ", "AJ", "Акциядорлик жамияти", "Aktsiyadorlik jamiyati",
	"ЙТТ", "YTT", "Якка тартибдаги тадбиркор", "Yakka tartibdagi tadbirkor",
	"ДУК", "DUK", "Давлат унитар корхонаси", "Davlat unitar korxonasi",
	"ХК", "XK", "Хусусий корхона", "Xususiy korxona",
	"ФМШЖ", "FMShJ", "Фуқароларнинг масъулияти чекланган жамияти",
	"Fuqarolarning masʼuliyati cheklangan jamiyati",
	"КФХ", "KFX", "Крестьянское фермерское хозяйство", "Dehqon fermer xoʻjaligi",
	"ТШЖ", "TShJ", "Тадбиркорлик шерикчилиги жамияти", "Tadbirkorlik sherikchiligi jamiyati",
	"КХ", "KH",
}

// companyIndicators признаки того, что наименование принадлежит организации,
// а не физическому лицу. Сравнение по подстроке в верхнем регистре.
var companyIndicators = []string{
	"ООО", "OOO", "АО", "AO", "ЗАО", "ZAO", "ПАО", "PAO",
	"LLC", "LTD", "INC", "CORP", "GMBH", "AG",
	"МЧЖ", "MCHJ", "Ж", "AJ",
}

var (
	abbreviationPatterns []*regexp.Regexp
	stripLabelPattern    *regexp.Regexp
	cleanLabelPattern    *regexp.Regexp
	unwantedCharPattern  = regexp.MustCompile(`["'/]`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

func init() {
	abbreviationPatterns = make([]*regexp.Regexp, len(entityAbbreviations))
	for i, entry := range entityAbbreviations {
		abbreviationPatterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(entry.Full))
	}

	// Канонические аббревиатуры не удаляются при нормализации,
	// чтобы «ООО Ромашка» не терял организационно-правовую форму.
	canonical := make(map[string]bool, len(entityAbbreviations))
	for _, entry := range entityAbbreviations {
		canonical[strings.ToUpper(entry.Abbr)] = true
	}

	var stripAlts, cleanAlts []string
	for _, label := range entityLabels {
		quoted := regexp.QuoteMeta(label)
		cleanAlts = append(cleanAlts, quoted)
		if !canonical[strings.ToUpper(label)] {
			stripAlts = append(stripAlts, quoted)
		}
	}

	// RE2 считает словом только ASCII, поэтому вместо \b границы
	// выражены явно через «не буква и не цифра».
	stripLabelPattern = regexp.MustCompile(
		`(?i)(^|[^\p{L}\p{N}])(?:` + strings.Join(stripAlts, "|") + `)([^\p{L}\p{N}]|$)`)
	cleanLabelPattern = regexp.MustCompile(
		`(?i)(^|[^\p{L}\p{N}])(?:` + strings.Join(cleanAlts, "|") + `)([^\p{L}\p{N}]|$)`)
}
