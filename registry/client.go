// Package registry рекурсивно разрешает структуру владения компаний:
// получение карточки из внешнего реестра, разбор учредителей и обход
// цепочек владения с ограничением глубины и защитой от циклов.
package registry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	apperrors "screener/server/errors"
)

// Client клиент внешнего реестра. Перед каждым запросом, включая
// рекурсивные, выдерживается фиксированная пауза — самоограничение
// нагрузки на реестр, а не полноценный rate limiter с burst.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient создает клиента реестра
func NewClient(baseURL string, timeout, fetchDelay time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:   rate.NewLimiter(rate.Every(fetchDelay), 1),
		userAgent: "Mozilla/5.0",
	}
}

// FetchEntity загружает страницу компании по регистрационному номеру
func (c *Client) FetchEntity(ctx context.Context, id string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewFetchError("rate limit wait failed", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("registry request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchError(
			fmt.Sprintf("unexpected status %d from registry", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewParseError("failed to parse registry page", err)
	}

	return doc, nil
}
