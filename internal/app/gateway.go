package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-gateway/internal/config"
	"github.com/samvad-hq/samvad-gateway/internal/logger"
	"github.com/samvad-hq/samvad-gateway/internal/session"
	"github.com/samvad-hq/samvad-gateway/pkg/apiclient"
	"github.com/samvad-hq/samvad-gateway/pkg/httpclient"
	"github.com/samvad-hq/samvad-gateway/pkg/notifiers"
	"github.com/samvad-hq/samvad-gateway/pkg/routes"
)

// Gateway is the wired runtime: session store, exemption routes, notifiers
// and the API client built on top of them. Close releases the store and
// notifier connections.
type Gateway struct {
	cfg      *config.Config
	log      logger.Logger
	store    session.Store
	sessions *session.Manager
	fanout   *notifiers.Fanout
	service  *apiclient.Service
}

// NewGateway builds a gateway runtime from config. client may be nil, in
// which case a resty transport is used.
func NewGateway(ctx context.Context, cfg *config.Config, log logger.Logger, client httpclient.Client) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	exempt, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	log.InfoObj("auth-exempt routes loaded", "routes_meta", map[string]any{
		"count": exempt.Len(),
		"file":  cfg.RoutesFile,
	})

	fanout, err := buildFanout(ctx, cfg.NotifiersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(cfg.SessionStoreType, cfg.SessionBoltPath)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	log.InfoObj("session store initialized", "session_store", map[string]any{
		"type": cfg.SessionStoreType,
		"path": cfg.SessionBoltPath,
		"key":  cfg.SessionKey,
	})
	sessions := session.NewManager(store, cfg.SessionKey)

	if client == nil {
		client = httpclient.NewRestyClient(0)
	}

	opts := apiclient.Options{
		Client:   client,
		Sessions: sessions,
		Exempt:   exempt,
		Timeout:  cfg.RequestTimeout,
		Log:      log,
	}
	if fanout.Size() > 0 {
		opts.Events = fanout
	}
	service, err := apiclient.NewService(opts)
	if err != nil {
		_ = store.Close()
		_ = fanout.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Gateway{
		cfg:      cfg,
		log:      log,
		store:    store,
		sessions: sessions,
		fanout:   fanout,
		service:  service,
	}, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*notifiers.Fanout, error) {
	if path == "" {
		return notifiers.NewFanout(nil), nil
	}

	reg, err := notifiers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	enabled := reg.Enabled()

	built, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   n.ID,
			"type": n.Type,
		})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})
	return notifiers.NewFanout(built), nil
}

// Service returns the API client.
func (g *Gateway) Service() *apiclient.Service { return g.service }

// Sessions returns the session manager bound to the configured key.
func (g *Gateway) Sessions() *session.Manager { return g.sessions }

// Close releases the session store and notifier clients, logging failures.
func (g *Gateway) Close() error {
	if g == nil {
		return nil
	}
	var errs []error
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			g.log.ErrorObj("session store close failed", "error", err)
			errs = append(errs, err)
		}
	}
	if err := g.fanout.Close(); err != nil {
		g.log.ErrorObj("notifiers close failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
