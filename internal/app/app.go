package app

import (
	"context"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/orbit-console/internal/client"
	"github.com/xenking/orbit-console/internal/console"
	"github.com/xenking/orbit-console/internal/domain/access"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/sale"
	"github.com/xenking/orbit-console/internal/domain/session"
	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/pkg/health"
	"github.com/xenking/orbit-console/pkg/httptransport"
)

const meterName = "github.com/xenking/orbit-console"

// Run creates all dependencies, signs in and drives the console until the
// operator quits or ctx is cancelled. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing", zap.String("api", cfg.APIURL))

	// The client reads the token through the session, which itself needs the
	// client to sign in.
	var sess *session.Session
	api, err := client.New(cfg.APIURL,
		client.WithHTTPClient(newHTTPClient(m, cfg)),
		client.WithTokenSource(client.TokenFunc(func() string { return sess.Token() })),
		client.WithTracerProvider(m.TracerProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create api client")
	}
	sess = session.New(api.Auth(), api.Identity())

	cache := querycache.New()
	sess.OnLogout(cache.Reset)

	loginCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	err = sess.Login(loginCtx, session.Credentials{Username: cfg.Username, Password: cfg.Password})
	cancel()
	if err != nil {
		return errors.Wrap(err, "sign in")
	}
	lg.Info("Signed in",
		zap.String("user", sess.User().Email),
		zap.String("organization", sess.Organization().Slug),
	)

	monitor := health.New()
	monitor.Add("api", cfg.Health.Timeout, api.HealthCheck)
	monitor.Start(ctx, cfg.Health.Interval)
	defer monitor.Stop()

	metrics, err := sale.NewMetrics(m.MeterProvider().Meter(meterName))
	if err != nil {
		return errors.Wrap(err, "create sale metrics")
	}
	sales := api.Sales()

	c := console.New(console.Deps{
		Identity:   sess,
		Gate:       access.NewGate(access.DefaultRules()),
		Cache:      cache,
		Products:   api.Products(),
		Categories: api.Categories(),
		Customers:  api.Customers(),
		Sales:      sales,
		Movements:  api.Products(),
		SaleDetail: sales,
		History:    sales,
		Submission: sale.NewSubmission(sales, cache,
			sale.WithTimeout(cfg.SubmitTimeout),
			sale.WithMetrics(metrics),
		),
		Cancel:         sale.NewCancelService(sales, cache),
		Stock:          product.NewStockService(api.Products(), cache),
		Health:         monitor,
		PageSize:       cfg.PageSize,
		RequestTimeout: cfg.RequestTimeout,
	}, os.Stdin, os.Stdout)

	if err := c.Run(ctx); err != nil {
		return errors.Wrap(err, "console")
	}
	lg.Info("Console closed")
	return nil
}

// newHTTPClient builds the outbound transport. Recovery sits outermost so a
// panicking middleware still surfaces as an error; the rate limiter runs
// before a request id is assigned so refused requests never get one.
func newHTTPClient(m *app.Telemetry, cfg *Config) *http.Client {
	rt := httptransport.Wrap(http.DefaultTransport,
		httptransport.Recovery(),
		httptransport.RateLimit(httptransport.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httptransport.RequestID(),
		httptransport.Logging(),
	)
	return &http.Client{
		Transport: otelhttp.NewTransport(rt,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}
}
