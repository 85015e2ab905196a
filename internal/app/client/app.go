package client

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"billbase/internal/config"
	"billbase/internal/identity"
	"billbase/internal/remote"
	"billbase/internal/storage/sqlite"
	"billbase/internal/sync"
)

// App wires the local store, the remote client and the sync engine for the
// CLI. Commands receive one App and never touch globals.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Store   *sqlite.Store
	Session *identity.FileSession
	Remote  *remote.Client

	Businesses *sqlite.BusinessRepository
	Clients    *sqlite.ClientRepository
	Invoices   *sqlite.InvoiceRepository
	LineItems  *sqlite.LineItemRepository
	Payments   *sqlite.PaymentRepository
	Outbox     *sqlite.OutboxRepository

	Engine *sync.Engine
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	session := identity.NewFileSession(cfg.DataDir)
	remoteClient := remote.NewClient(cfg, session, log)

	outbox := sqlite.NewOutboxRepository(store, log)
	businesses := sqlite.NewBusinessRepository(store, outbox, log)
	clients := sqlite.NewClientRepository(store, outbox, log)
	lineItems := sqlite.NewLineItemRepository(store, log)
	invoices := sqlite.NewInvoiceRepository(store, outbox, lineItems, log)
	payments := sqlite.NewPaymentRepository(store, outbox, log)

	engine := sync.New(sync.Deps{
		Store:      store,
		Outbox:     outbox,
		Businesses: businesses,
		Clients:    clients,
		Invoices:   invoices,
		Payments:   payments,
		Remote:     remoteClient,
		Identity:   session,
		Log:        log,
	})

	return &App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Session:    session,
		Remote:     remoteClient,
		Businesses: businesses,
		Clients:    clients,
		Invoices:   invoices,
		LineItems:  lineItems,
		Payments:   payments,
		Outbox:     outbox,
		Engine:     engine,
	}, nil
}

// IsAuthenticated reports whether a stored session exists. The token may
// still be expired server-side; only a request finds that out.
func (a *App) IsAuthenticated() bool {
	_, err := a.Session.CurrentUser(context.Background())
	return err == nil
}

// Sync runs one push-then-pull pass.
func (a *App) Sync(ctx context.Context) (*sync.Result, *sync.Result, error) {
	pushRes, err := a.Engine.Push(ctx)
	if err != nil {
		return nil, nil, err
	}
	pullRes, err := a.Engine.Pull(ctx)
	if err != nil {
		return pushRes, nil, err
	}
	return pushRes, pullRes, nil
}

// SyncInterval returns the configured background sync period.
func (a *App) SyncInterval() time.Duration {
	return time.Duration(a.Config.SyncInterval) * time.Second
}

func (a *App) Close() error {
	return a.Store.Close()
}
