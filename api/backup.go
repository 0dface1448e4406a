/*
backup.go - Periodic session backup

PURPOSE:
  Sales live in memory until the operator exports them. If the laptop dies
  first the session is gone. The backup scheduler writes a JSON snapshot of
  the ledger to the export directory whenever it changed since the last
  snapshot.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Skips the write when the till revision is unchanged
  - Never clears the unsaved-sales flag: a backup is not an export
  - Takes Handler.mu like any other writer of the session

CONFIGURATION:
  - Interval: How often to check (CAIXA_BACKUP_INTERVAL, 0 disables)

USAGE:
  backup := NewBackupScheduler(handler, 5*time.Minute)
  backup.Start()
  // ... later
  backup.Stop()

SEE ALSO:
  - handlers.go: ExportSession (operator export)
  - store/jsonfile/session.go: document format
*/
package api

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/jsonfile"
)

// BackupScheduler snapshots the session ledger on a timer.
type BackupScheduler struct {
	Handler  *Handler
	Interval time.Duration

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRev uint64
}

// NewBackupScheduler creates a scheduler. A zero interval disables it.
func NewBackupScheduler(h *Handler, interval time.Duration) *BackupScheduler {
	return &BackupScheduler{Handler: h, Interval: interval}
}

// Path is where snapshots go: one file per session, overwritten each time.
func (b *BackupScheduler) Path() string {
	return filepath.Join(b.Handler.exportDir, "vendas_backup_"+b.Handler.till.ID.String()+".json")
}

// Start begins the scheduler.
func (b *BackupScheduler) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Interval <= 0 {
		b.Handler.log.Info("session backup disabled")
		return
	}
	if b.ticker != nil {
		return
	}

	b.ticker = time.NewTicker(b.Interval)
	b.stop = make(chan struct{})
	b.wg.Add(1)
	go b.run()

	b.Handler.log.Info("session backup started", zap.Duration("interval", b.Interval), zap.String("path", b.Path()))
}

// Stop stops the scheduler and takes a last snapshot.
func (b *BackupScheduler) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ticker == nil {
		return
	}
	b.ticker.Stop()
	close(b.stop)
	b.wg.Wait()
	b.ticker = nil
	b.RunNow()
	b.Handler.log.Info("session backup stopped")
}

func (b *BackupScheduler) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ticker.C:
			b.RunNow()
		case <-b.stop:
			return
		}
	}
}

// RunNow writes a snapshot if the ledger changed since the last one. It
// reports whether a file was written.
func (b *BackupScheduler) RunNow() bool {
	h := b.Handler
	h.mu.Lock()
	defer h.mu.Unlock()

	rev := h.till.Revision()
	if rev == b.lastRev {
		return false
	}

	path := b.Path()
	if err := jsonfile.ExportSession(path, h.till.ID, h.till.Ledger, h.now()); err != nil {
		h.metrics.persistenceFailed("backup session")
		h.log.Error("session backup failed", zap.String("path", path),
			zap.Error(&register.PersistenceError{Op: "backup session", Err: err}))
		return false
	}
	b.lastRev = rev
	h.log.Debug("session backed up", zap.String("path", path), zap.Uint64("revision", rev))
	return true
}
