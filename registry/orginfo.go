package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"screener/normalization"
	apperrors "screener/server/errors"
)

// OrgProfile карточка организации из узбекского реестра
type OrgProfile struct {
	Name           string       `json:"name,omitempty"`
	NormalizedName string       `json:"normalized_name,omitempty"`
	TIN            string       `json:"tin,omitempty"`
	CEO            string       `json:"ceo,omitempty"`
	Address        string       `json:"address,omitempty"`
	Founders       []OrgFounder `json:"founders,omitempty"`
}

// OrgFounder учредитель из карточки организации
type OrgFounder struct {
	Owner               string   `json:"owner"`
	IsCompany           bool     `json:"is_company"`
	OwnershipPercentage *float64 `json:"ownership_percentage,omitempty"`
}

// OrgInfoClient клиент поиска по наименованию во вторичном реестре.
// В отличие от основного реестра здесь нет регистрационного номера:
// сначала поиск даёт ссылку на карточку, затем карточка разбирается.
type OrgInfoClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewOrgInfoClient создает клиента вторичного реестра
func NewOrgInfoClient(baseURL string, timeout, fetchDelay time.Duration) *OrgInfoClient {
	return &OrgInfoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Every(fetchDelay), 1),
		userAgent: "Mozilla/5.0",
	}
}

// SearchOrganization ищет организацию по наименованию и возвращает
// абсолютный URL её карточки. Отсутствие совпадения — пустая строка
// без ошибки.
func (c *OrgInfoClient) SearchOrganization(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperrors.NewValidationError("company name is required", nil)
	}

	searchURL := fmt.Sprintf("%s/en/search/organizations/?q=%s&sort=active",
		c.baseURL, url.QueryEscape(name))

	doc, err := c.fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	// Первая ссылка, текст которой содержит искомое наименование
	lowered := strings.ToLower(name)
	match := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(s.Text()), lowered) {
			return true
		}
		href, _ := s.Attr("href")
		match = c.resolveURL(href)
		return false
	})

	return match, nil
}

// FetchOrganization загружает и разбирает карточку организации.
// Каждое поле опционально: отсутствующий блок даёт пустое значение.
func (c *OrgInfoClient) FetchOrganization(ctx context.Context, orgURL string) (*OrgProfile, error) {
	if orgURL == "" {
		return nil, apperrors.NewValidationError("organization url is required", nil)
	}

	doc, err := c.fetch(ctx, orgURL)
	if err != nil {
		return nil, err
	}

	profile := &OrgProfile{}

	if name := strings.TrimSpace(doc.Find("h1.h1-seo").First().Text()); name != "" {
		profile.Name = name
		profile.NormalizedName = normalization.Normalize(name)
	}

	if tin := strings.TrimSpace(doc.Find("span#organizationTinValue").First().Text()); tin != "" {
		profile.TIN = tin
	}

	if section := findSectionHeading(doc, "Management information"); section.Length() > 0 {
		profile.CEO = strings.TrimSpace(nextMatching(section, "a").Text())
	}

	if section := findSectionHeading(doc, "Contact information"); section.Length() > 0 {
		profile.Address = strings.TrimSpace(nextMatching(section, "div.row").Find("span").First().Text())
	}

	if section := findSectionHeading(doc, "Founders"); section.Length() > 0 {
		block := section.NextAllFiltered("div").First()
		block.Find("div.row").Each(func(_ int, row *goquery.Selection) {
			owner := strings.TrimSpace(row.Find("a").First().Text())
			if owner == "" {
				return
			}

			profile.Founders = append(profile.Founders, OrgFounder{
				Owner:               owner,
				IsCompany:           normalization.IsCompanyName(owner),
				OwnershipPercentage: parseOwnershipPercentage(row.Text()),
			})
		})
	}

	return profile, nil
}

func (c *OrgInfoClient) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewFetchError("rate limit wait failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("orginfo request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchError(
			fmt.Sprintf("unexpected status %d from orginfo", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewParseError("failed to parse orginfo page", err)
	}

	return doc, nil
}

// resolveURL превращает относительную ссылку карточки в абсолютную
func (c *OrgInfoClient) resolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return c.baseURL + "/" + strings.TrimLeft(href, "/")
}

// findSectionHeading находит заголовок раздела карточки по его тексту
func findSectionHeading(doc *goquery.Document, title string) *goquery.Selection {
	return doc.Find("h5").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == title
	}).First()
}

// nextMatching возвращает первый элемент по селектору среди следующих
// братьев выбранного узла или их потомков
func nextMatching(s *goquery.Selection, selector string) *goquery.Selection {
	for sibling := s.Next(); sibling.Length() > 0; sibling = sibling.Next() {
		if sibling.Is(selector) {
			return sibling
		}
		if found := sibling.Find(selector); found.Length() > 0 {
			return found.First()
		}
	}
	return s.Slice(0, 0)
}
