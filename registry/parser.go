package registry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	registrationDatePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

	// Доля в карточке реестра: «Доля 5000р. (50%)», с запасным вариантом
	// для страниц, где процент указан без рублёвого номинала.
	sharePattern   = regexp.MustCompile(`Доля \d+р\. \((\d+(?:\.\d+)?)%\)`)
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
)

// companyPage структурное содержимое карточки компании
type companyPage struct {
	Name             string
	RegistrationDate string
	Address          string
	CEO              string
	Founders         []founderEntry
}

// founderEntry один учредитель из раздела «Сведения об учредителях»
type founderEntry struct {
	Name       string
	ID         string
	Percentage *float64
}

// parseCompanyPage извлекает поля карточки. Каждое поле опционально:
// отсутствующий блок даёт пустое значение, разбор не прерывается.
func parseCompanyPage(doc *goquery.Document) companyPage {
	var page companyPage

	if name := strings.TrimSpace(doc.Find("h1#short_name").First().Text()); name != "" {
		page.Name = name
	}

	if address := strings.TrimSpace(doc.Find("div#address").First().Text()); address != "" {
		page.Address = address
	}

	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "Дата регистрации") {
			return true
		}
		if date := registrationDatePattern.FindString(text); date != "" {
			page.RegistrationDate = date
			return false
		}
		return true
	})

	if ceo := strings.TrimSpace(doc.Find("div#chief a").First().Text()); ceo != "" {
		page.CEO = ceo
	}

	doc.Find(`div[id='СвУчредит'] a`).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}

		href, _ := s.Attr("href")
		founder := founderEntry{
			Name: name,
			ID:   strings.Trim(href, "/"),
		}

		// Процент владения указан в тексте сразу после ссылки на учредителя
		if details := followingText(s); details != "" {
			founder.Percentage = parseOwnershipPercentage(details)
		}

		page.Founders = append(page.Founders, founder)
	})

	return page
}

// followingText возвращает текстовый узел, следующий за выбранным элементом
func followingText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	for sibling := s.Nodes[0].NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type == html.TextNode {
			if text := strings.TrimSpace(sibling.Data); text != "" {
				return text
			}
			continue
		}
		break
	}
	return ""
}

// parseOwnershipPercentage выделяет долю владения из свободного текста.
// Неразборчивый текст даёт nil — отсутствие значения, а не ноль.
func parseOwnershipPercentage(text string) *float64 {
	match := sharePattern.FindStringSubmatch(text)
	if match == nil {
		match = percentPattern.FindStringSubmatch(text)
	}
	if match == nil {
		return nil
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &value
}
