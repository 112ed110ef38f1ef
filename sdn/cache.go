// Package sdn отвечает за жизненный цикл снапшота санкционного списка
// и поиск по нему: загрузка XML документа, материализация в JSON для
// быстрой перезагрузки и движок сопоставления наименований.
package sdn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	apperrors "screener/server/errors"
)

const (
	// cacheExpiry окно свежести материализованного кэша
	cacheExpiry = 24 * time.Hour

	rawFileName   = "sdn.xml"
	cacheFileName = "sdn_cache.json"
)

// Cache владеет дисковым снапшотом санкционного списка: проверка
// свежести, загрузка исходного документа и материализация записей.
type Cache struct {
	dataDir    string
	sourceURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewCache создает кэш санкционного списка. Каталог данных создаётся
// при первом обращении; невозможность его создать — фатальная ошибка
// вызывающей стороны.
func NewCache(dataDir, sourceURL string, timeout, fetchDelay time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		dataDir:    dataDir,
		sourceURL:  sourceURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(fetchDelay), 1),
		logger:     logger,
	}
}

func (c *Cache) rawPath() string {
	return filepath.Join(c.dataDir, rawFileName)
}

func (c *Cache) cachePath() string {
	return filepath.Join(c.dataDir, cacheFileName)
}

// IsFresh сообщает, существует ли материализованный кэш и моложе ли он
// окна свежести.
func (c *Cache) IsFresh() bool {
	info, err := os.Stat(c.cachePath())
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < cacheExpiry
}

// Refresh загружает исходный документ списка. При успехе атомарно
// заменяет сырой файл и удаляет материализованный кэш, вынуждая
// следующий LoadOrParse выполнить разбор заново. Сам разбор здесь
// не выполняется.
func (c *Cache) Refresh(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewFetchError("rate limit wait failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return apperrors.NewFetchError("failed to create request", err)
	}

	c.logger.Info("downloading sanctions list", "url", c.sourceURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewFetchError("sanctions list download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewFetchError("unexpected status from sanctions source: "+resp.Status, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewFetchError("failed to read sanctions payload", err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("<?xml")) {
		return apperrors.NewFormatError("downloaded content is not valid XML", nil)
	}

	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return apperrors.NewInternalError("failed to create data directory", err)
	}

	if err := atomicWrite(c.rawPath(), body); err != nil {
		return apperrors.NewInternalError("failed to store sanctions document", err)
	}

	// Инвалидация: следующий читатель обязан разобрать свежий документ
	if err := os.Remove(c.cachePath()); err != nil && !os.IsNotExist(err) {
		c.logger.Warn("failed to invalidate materialized cache", "error", err)
	}

	c.logger.Info("sanctions list downloaded", "bytes", len(body))
	return nil
}

// LoadOrParse возвращает записи списка: из материализованного кэша,
// если он свеж, иначе разбирает сырой документ и сохраняет кэш.
// Ошибки разбора гасятся на границе пакета: логируются и превращаются
// в пустой набор, чтобы вызывающая сторона деградировала до
// «совпадений нет», а не падала.
func (c *Cache) LoadOrParse() []Record {
	if c.IsFresh() {
		if records, err := c.readMaterialized(); err == nil {
			return records
		} else {
			c.logger.Warn("failed to read materialized cache, falling back to parse", "error", err)
		}
	}

	raw, err := os.ReadFile(c.rawPath())
	if err != nil {
		c.logger.Error("sanctions document unavailable", "error", err)
		return []Record{}
	}

	records, err := ParseRecords(raw)
	if err != nil {
		c.logger.Error("sanctions document parse failed", "error", err)
		return []Record{}
	}

	if err := c.writeMaterialized(records); err != nil {
		c.logger.Warn("failed to persist materialized cache", "error", err)
	}

	return records
}

func (c *Cache) readMaterialized() ([]Record, error) {
	data, err := os.ReadFile(c.cachePath())
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Cache) writeMaterialized(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return err
	}
	return atomicWrite(c.cachePath(), data)
}

// atomicWrite пишет данные во временный файл и переименовывает его:
// неудачная запись не должна затронуть последний корректный файл.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
