// Package catalog загружает статический документ каталога (категории и товары).
// Документ читается один раз за жизнь процесса и дальше не меняется.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/pkg/errors"
)

var ErrUnavailable = errors.New("catalog unavailable")

// Provider отдаёт загруженный каталог
type Provider interface {
	Load(ctx context.Context) (*models.Catalog, error)
}

// Loader читает каталог из файла или по http(s) URL. В кэш попадает только
// успешная загрузка, поэтому после ошибки следующий вызов пробует снова.
type Loader struct {
	log      *slog.Logger
	source   string
	client   *http.Client
	validate *validator.Validate

	mu     sync.Mutex
	cached *models.Catalog
}

func NewLoader(log *slog.Logger, source string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		log:      log,
		source:   source,
		client:   client,
		validate: validator.New(),
	}
}

func (l *Loader) Load(ctx context.Context) (*models.Catalog, error) {
	const op = "catalog.Loader.Load"

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	logger := l.log.With(slog.String("op", op), slog.String("source", l.source))

	raw, err := l.read(ctx)
	if err != nil {
		logger.Error("failed to read catalog", slog.Any("error", err))
		return nil, errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	}

	var doc models.Catalog
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Error("failed to parse catalog", slog.Any("error", err))
		return nil, errors.Wrapf(ErrUnavailable, "%s: parse: %v", op, err)
	}
	if err := l.validate.Struct(doc); err != nil {
		logger.Error("catalog validation failed", slog.Any("error", err))
		return nil, errors.Wrapf(ErrUnavailable, "%s: validate: %v", op, err)
	}

	logger.Info("catalog loaded",
		slog.Int("categories", len(doc.Categories)),
		slog.Int("products", len(doc.Products)),
	)
	l.cached = &doc
	return l.cached, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(l.source)
}
