// Package app wires configuration into the cart store and the category loader.
package app

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stebinsabu13/fastlane/pkg/cart"
	"github.com/stebinsabu13/fastlane/pkg/catalog"
	"github.com/stebinsabu13/fastlane/pkg/config"
	"github.com/stebinsabu13/fastlane/pkg/db"
	"github.com/stebinsabu13/fastlane/pkg/notify"
)

type App struct {
	Cart     *cart.Store
	Catalog  *catalog.Loader
	Notifier *notify.Notifier

	closers []func() error
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Bootstrap builds every component; cart rehydration and the first category
// load run concurrently.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	slots, err := a.openSlots(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	loader, err := NewCatalogLoader(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = loader
	a.Notifier = notify.New(notify.WithDelay(cfg.NotificationDelay))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Cart = cart.NewStore(gctx, slots,
			cart.WithKey(cfg.CartKey),
			cart.WithWriteTimeout(cfg.CartWriteTimeout),
			cart.WithNotifier(a.Notifier),
			cart.WithLogger(log.WithField("component", "cart")),
		)
		return nil
	})
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, cfg.CatalogTimeout)
		defer cancel()
		loader.Load(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openSlots(ctx context.Context, cfg *config.Config) (db.Slots, error) {
	switch cfg.Storage {
	case "redis":
		client, err := db.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return db.NewRedisSlots(client, cfg.RedisPrefix, cfg.RedisTTL), nil
	case "postgres":
		conn, err := db.NewPostgres(cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGDBName, cfg.PGSSLMode)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		return db.NewPostgresSlots(ctx, conn)
	default:
		return db.NewMemorySlots(), nil
	}
}

// NewCatalogLoader builds a loader for the configured source and fallback list.
func NewCatalogLoader(cfg *config.Config) (*catalog.Loader, error) {
	opts := []catalog.Option{catalog.WithLogger(log.WithField("component", "catalog"))}
	if cfg.FallbackCSV != "" {
		f, err := os.Open(cfg.FallbackCSV)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open fallback CSV")
		}
		defer f.Close()
		categories, err := catalog.ReadFallbackCSV(f)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithFallback(categories))
	}

	var source catalog.Source
	switch cfg.CatalogSource {
	case "s3":
		sess, err := session.NewSession()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS session")
		}
		svc := s3.New(sess, aws.NewConfig().WithRegion(cfg.S3Region))
		source = catalog.NewS3Source(svc, cfg.S3Bucket, cfg.S3Key)
	default:
		client := &http.Client{Timeout: cfg.CatalogTimeout}
		source = catalog.NewHTTPSource(client, cfg.CatalogBaseURL, cfg.CatalogPath)
	}
	return catalog.NewLoader(source, opts...), nil
}
