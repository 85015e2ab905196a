package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"billbase/internal/identity"
	"billbase/internal/model"
	"billbase/internal/storage/sqlite"
)

// ErrSyncBusy is returned when a push or pull is invoked while another pass
// is in flight. Both directions read-then-write sync state across multiple
// statements, so passes are strictly serialized.
var ErrSyncBusy = errors.New("sync already in progress")

// RemoteStore is the row-oriented remote backend the engine syncs against.
// Every call may fail with a transport or authorization error; the engine
// treats each failure as a per-record or per-table error, never as fatal.
type RemoteStore interface {
	Insert(ctx context.Context, table string, row json.RawMessage) error
	Update(ctx context.Context, table, id string, row json.RawMessage) error
	Delete(ctx context.Context, table, id string) error
	SelectSince(ctx context.Context, table, userID string, since *time.Time) ([]RemoteRow, error)
}

// RemoteRow is one row returned by SelectSince. Data is the full entity
// snapshot; UpdatedAt is the writer-side modification time the remote
// filtered on.
type RemoteRow struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Identity supplies the authenticated user pull scopes its queries by.
type Identity interface {
	CurrentUser(ctx context.Context) (*identity.User, error)
}

// Result is the outcome of one push or pull pass.
type Result struct {
	Success      bool      `json:"success"`
	Synced       int       `json:"synced"`
	Errors       int       `json:"errors"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty"`
}

// Deps are the engine's owned collaborators, injected explicitly so tests
// can run against independent store instances and a fake remote.
type Deps struct {
	Store      *sqlite.Store
	Outbox     *sqlite.OutboxRepository
	Businesses *sqlite.BusinessRepository
	Clients    *sqlite.ClientRepository
	Invoices   *sqlite.InvoiceRepository
	Payments   *sqlite.PaymentRepository
	Remote     RemoteStore
	Identity   Identity
	Log        *slog.Logger
}

// Engine orchestrates push (drain outbox to the remote) and pull (fold
// remote changes into the local store).
type Engine struct {
	deps Deps
	log  *slog.Logger

	// mu serializes passes in both directions: at most one sync operation
	// is in flight at any time.
	mu sync.Mutex
}

func New(deps Deps) *Engine {
	return &Engine{
		deps: deps,
		log:  deps.Log.With("component", "sync_engine"),
	}
}

// Push drains the outbox in FIFO order, one record at a time. A record
// failure leaves it pending and moves on; rerunning push only reprocesses
// records that are still pending, so a pass is safely re-triggerable.
func (e *Engine) Push(ctx context.Context) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncBusy
	}
	defer e.mu.Unlock()

	res := &Result{}

	pending, err := e.deps.Outbox.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	e.log.Debug("push started", "pending", len(pending))

	for _, rec := range pending {
		if err := e.applyRemote(ctx, rec); err != nil {
			e.log.Warn("push record failed",
				"record_id", rec.ID,
				"operation", rec.Operation.String(),
				"table", rec.Kind.Table(),
				"error", err)
			res.Errors++
			continue
		}

		if err := e.deps.Outbox.MarkSynced(ctx, rec.ID); err != nil {
			// The remote write landed but the local mark did not; the record
			// stays pending and the next pass replays it against the remote's
			// idempotent upsert.
			e.log.Warn("mark synced failed", "record_id", rec.ID, "error", err)
			res.Errors++
			continue
		}
		res.Synced++
	}

	res.LastSyncedAt = time.Now()
	res.Success = res.Errors == 0

	e.log.Info("push finished", "synced", res.Synced, "errors", res.Errors)
	return res, nil
}

func (e *Engine) applyRemote(ctx context.Context, rec model.OutboxRecord) error {
	switch rec.Operation {
	case model.OpCreate:
		if _, err := rec.Kind.DecodeSnapshot(rec.Data); err != nil {
			return err
		}
		return e.deps.Remote.Insert(ctx, rec.Kind.Table(), rec.Data)
	case model.OpUpdate:
		if _, err := rec.Kind.DecodeSnapshot(rec.Data); err != nil {
			return err
		}
		return e.deps.Remote.Update(ctx, rec.Kind.Table(), rec.RecordID, rec.Data)
	case model.OpDelete:
		return e.deps.Remote.Delete(ctx, rec.Kind.Table(), rec.RecordID)
	}
	return fmt.Errorf("invalid outbox operation: %s", rec.Operation)
}

// Pull fetches remote rows changed since the local high-water mark and folds
// them in with last-writer-wins row semantics. Tables are pulled parents
// first, and one table's failure never aborts the rest.
func (e *Engine) Pull(ctx context.Context) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncBusy
	}
	defer e.mu.Unlock()

	res := &Result{}

	user, err := e.deps.Identity.CurrentUser(ctx)
	if err != nil {
		e.log.Warn("pull requires an authenticated user", "error", err)
		res.Errors = 1
		return res, nil
	}

	mark, err := e.deps.Store.HighWaterMark(ctx)
	if err != nil {
		e.log.Error("high-water mark query failed", "error", err)
		res.Errors = 1
		return res, nil
	}

	e.log.Debug("pull started", "user_id", user.ID, "since", mark)

	for _, kind := range model.SyncOrder {
		if err := e.pullKind(ctx, kind, user.ID, mark, res); err != nil {
			e.log.Warn("pull table failed", "table", kind.Table(), "error", err)
			res.Errors++
		}
	}

	res.LastSyncedAt = time.Now()
	res.Success = res.Errors == 0

	e.log.Info("pull finished", "synced", res.Synced, "errors", res.Errors)
	return res, nil
}

func (e *Engine) pullKind(ctx context.Context, kind model.Kind, userID string, since *time.Time, res *Result) error {
	rows, err := e.deps.Remote.SelectSince(ctx, kind.Table(), userID, since)
	if err != nil {
		return fmt.Errorf("select since: %w", err)
	}

	now := time.Now()
	for _, row := range rows {
		if err := e.applyLocal(ctx, kind, row, now); err != nil {
			return fmt.Errorf("apply row %s: %w", row.ID, err)
		}
		res.Synced++
	}
	return nil
}

// applyLocal upserts one remote row by primary key. The remote value wins
// unconditionally: no field-level merge, no local-vs-remote conflict check.
func (e *Engine) applyLocal(ctx context.Context, kind model.Kind, row RemoteRow, syncedAt time.Time) error {
	v, err := kind.DecodeSnapshot(row.Data)
	if err != nil {
		return err
	}

	switch ent := v.(type) {
	case *model.Business:
		return e.deps.Businesses.UpsertRemote(ctx, ent, syncedAt)
	case *model.Client:
		return e.deps.Clients.UpsertRemote(ctx, ent, syncedAt)
	case *model.Invoice:
		return e.deps.Invoices.UpsertRemote(ctx, ent, syncedAt)
	case *model.Payment:
		return e.deps.Payments.UpsertRemote(ctx, ent, syncedAt)
	}
	return fmt.Errorf("invalid syncable kind: %s", kind)
}

// Run pushes then pulls on a fixed interval until the context is cancelled.
// Pass errors are logged and the loop keeps going; the next tick retries.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	e.log.Info("auto sync started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("auto sync stopped")
			return
		case <-ticker.C:
			if _, err := e.Push(ctx); err != nil && !errors.Is(err, ErrSyncBusy) {
				e.log.Error("auto push failed", "error", err)
			}
			if _, err := e.Pull(ctx); err != nil && !errors.Is(err, ErrSyncBusy) {
				e.log.Error("auto pull failed", "error", err)
			}
		}
	}
}
