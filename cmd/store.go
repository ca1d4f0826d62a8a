package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/store"
	"github.com/sells-group/leadscout/pkg/notion"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leadscout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "none", "":
		return store.NewMemory(), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initSinks builds the optional lead sinks (XLSX workbook, Notion
// database) from config. A sink that fails to initialize is skipped
// with a warning rather than failing the command.
func initSinks() []store.LeadLogger {
	var sinks []store.LeadLogger

	if cfg.Store.XLSXPath != "" {
		xl, err := store.NewXLSXLogger(cfg.Store.XLSXPath)
		if err != nil {
			zap.L().Warn("xlsx sink init failed, skipping",
				zap.String("path", cfg.Store.XLSXPath),
				zap.Error(err),
			)
		} else {
			sinks = append(sinks, xl)
		}
	}

	if cfg.Notion.Token != "" && cfg.Notion.LeadDB != "" {
		client := notion.NewClient(cfg.Notion.Token)
		sinks = append(sinks, store.NewNotionSink(client, cfg.Notion.LeadDB))
	}

	return sinks
}
