package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/internal/analytics"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/storage"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/bigquery"
	"github.com/angelmondragon/storefront/pkg/clock"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/pubsub"
	"github.com/angelmondragon/storefront/pkg/redis"
)

const drainTimeout = 10 * time.Second

type application struct {
	storefront storefront.Service
	tracker    *analytics.Dispatcher
	dataLayer  *analytics.DataLayer
	metrics    *metrics.Storefront
	registry   *prometheus.Registry
	ready      []controllers.ReadyCheck
	closers    []func() error
}

func (a *application) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}

func bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*application, error) {
	app := &application{registry: prometheus.NewRegistry()}
	if err := wire(ctx, cfg, logg, app); err != nil {
		return nil, multierr.Append(err, app.Close())
	}
	return app, nil
}

func wire(ctx context.Context, cfg *config.Config, logg *logger.Logger, app *application) error {
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.metrics = metrics.NewStorefront(app.registry)
	clk := clock.Real{}

	slots, notifier, err := openSlots(ctx, cfg, logg, clk, app)
	if err != nil {
		return err
	}
	app.ready = append(app.ready, controllers.ReadyCheck{Name: "slots", Ping: slots.Ping})

	carts, err := cart.NewStore(slots, logg)
	if err != nil {
		return err
	}
	if notifier != nil {
		carts.OnChange(func(ctx context.Context, scope string, _ cart.Cart) {
			if err := notifier.Notify(ctx, scope); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart change notification failed")
			}
		})
	}

	orders, err := checkout.NewOrderStore(slots)
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(carts, orders, checkout.NewIDGenerator(clk), clk, logg)
	if err != nil {
		return err
	}

	sinks, err := openSinks(ctx, cfg, logg, app)
	if err != nil {
		return err
	}
	app.tracker, err = analytics.NewDispatcher(analytics.Options{
		Slots:   slots,
		Sinks:   sinks,
		Clock:   clk,
		Logger:  logg,
		Metrics: app.metrics,
		Debug:   cfg.Analytics.Debug,
	})
	if err != nil {
		return err
	}
	tracker := app.tracker
	app.closers = append(app.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return tracker.Close(ctx)
	})

	app.storefront, err = storefront.NewService(storefront.Deps{
		Source:   catalog.NewSource(cfg.Catalog.Source, nil),
		Carts:    carts,
		Checkout: checkoutSvc,
		Tracker:  app.tracker,
		Metrics:  app.metrics,
		Logger:   logg,
	})
	return err
}

// openSlots builds the configured slot backend. The Redis backend also
// returns a notifier that publishes cart changes.
func openSlots(ctx context.Context, cfg *config.Config, logg *logger.Logger, clk clock.Clock, app *application) (storage.Slots, *storage.RedisNotifier, error) {
	switch cfg.Storage.Backend() {
	case config.StorageMemory:
		return storage.NewMemorySlots(), nil, nil

	case config.StorageRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		slots, err := storage.NewRedisSlots(client, cfg.Redis.SlotTTL)
		if err != nil {
			return nil, nil, err
		}
		return slots, storage.NewRedisNotifier(client, cfg.Redis.CartChannel), nil

	case config.StorageSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap database: %w", err)
		}
		app.closers = append(app.closers, client.Close)
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, nil, fmt.Errorf("dev migrations: %w", err)
		}
		slots, err := storage.NewSQLSlots(client.DB(), client, clk)
		if err != nil {
			return nil, nil, err
		}
		return slots, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend())
}

func openSinks(ctx context.Context, cfg *config.Config, logg *logger.Logger, app *application) ([]analytics.Sink, error) {
	var sinks []analytics.Sink
	for _, name := range cfg.Analytics.SinkNames() {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, analytics.NewLogSink(logg))

		case config.SinkDataLayer:
			app.dataLayer = analytics.NewDataLayer(cfg.Analytics.DataLayerSize)
			sinks = append(sinks, app.dataLayer)

		case config.SinkPubSub:
			client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
			if err != nil {
				return nil, fmt.Errorf("bootstrap pubsub: %w", err)
			}
			app.closers = append(app.closers, client.Close)
			app.ready = append(app.ready, controllers.ReadyCheck{Name: "pubsub", Ping: client.Ping})
			sink, err := analytics.NewPubSubSink(client.AnalyticsPublisher())
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)

		case config.SinkBigQuery:
			client, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
			if err != nil {
				return nil, fmt.Errorf("bootstrap bigquery: %w", err)
			}
			app.closers = append(app.closers, client.Close)
			app.ready = append(app.ready, controllers.ReadyCheck{Name: "bigquery", Ping: client.Ping})
			sink, err := analytics.NewBigQuerySink(client, cfg.BigQuery.EventsTable)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		}
	}
	// the debug endpoint always has a buffer to read
	if app.dataLayer == nil && cfg.Analytics.Debug {
		app.dataLayer = analytics.NewDataLayer(cfg.Analytics.DataLayerSize)
		sinks = append(sinks, app.dataLayer)
	}
	return sinks, nil
}
