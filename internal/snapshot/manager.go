package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abgdnv/storecore/internal/domain"
	"github.com/abgdnv/storecore/internal/store"
	"github.com/google/uuid"
)

// Manager runs snapshot saves and loads off the caller's goroutine.
// Jobs are executed one at a time on a dedicated worker, so a save
// and a load requested back to back cannot interleave and corrupt
// either the blob or the in-memory collections. Completion is reported
// through the callbacks passed to Save and Load; the store is only
// touched through its own API, which is what keeps the load swap
// all-or-nothing.
type Manager struct {
	path   string
	store  *store.Store
	logger *slog.Logger
	jobs   chan job
	done   chan struct{}
}

type job func()

// NewManager creates a manager persisting to path and starts its
// worker. Call Close when the manager is no longer needed.
func NewManager(path string, st *store.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		path:   path,
		store:  st,
		logger: logger.With("component", "snapshot"),
		jobs:   make(chan job, 8),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	defer close(m.done)
	for j := range m.jobs {
		j()
	}
}

// Close stops the worker after draining queued jobs.
func (m *Manager) Close() {
	close(m.jobs)
	<-m.done
}

// Save snapshots the current collections and writes the blob
// asynchronously. The collections are captured as a detached clone
// before Save returns, so later mutations, product stock included, do
// not leak into the snapshot. Exactly one of onSuccess / onError is
// invoked from the worker when the write finishes.
func (m *Manager) Save(onSuccess func(), onError func(error)) {
	customers, products, orders := m.store.Clone()
	snap := Snapshot{
		Customers: customers,
		Products:  products,
		Orders:    orders,
	}
	jobID := uuid.NewString()
	m.jobs <- func() {
		if err := m.write(snap); err != nil {
			m.logger.Error("snapshot save failed", "job_id", jobID, "error", err)
			if onError != nil {
				onError(&domain.PersistenceError{Op: "save", Err: err})
			}
			return
		}
		m.logger.Info("snapshot saved", "job_id", jobID, "path", m.path,
			"customers", len(snap.Customers), "products", len(snap.Products), "orders", len(snap.Orders))
		if onSuccess != nil {
			onSuccess()
		}
	}
}

// Load reads and decodes the blob asynchronously and, on success,
// replaces all three collections in one step. A missing or corrupt
// file, or a dangling order reference, aborts the load with the
// in-memory collections untouched.
func (m *Manager) Load(onSuccess func(Snapshot), onError func(error)) {
	jobID := uuid.NewString()
	m.jobs <- func() {
		data, err := os.ReadFile(m.path)
		if err != nil {
			m.logger.Error("snapshot load failed", "job_id", jobID, "error", err)
			if onError != nil {
				onError(&domain.PersistenceError{Op: "load", Err: err})
			}
			return
		}
		snap, err := Decode(data)
		if err != nil {
			m.logger.Error("snapshot load failed", "job_id", jobID, "error", err)
			if onError != nil {
				onError(&domain.PersistenceError{Op: "load", Err: err})
			}
			return
		}
		m.store.ReplaceAll(snap.Customers, snap.Products, snap.Orders)
		m.logger.Info("snapshot loaded", "job_id", jobID, "path", m.path,
			"customers", len(snap.Customers), "products", len(snap.Products), "orders", len(snap.Orders))
		if onSuccess != nil {
			onSuccess(snap)
		}
	}
}

// write serializes the snapshot to a temporary file in the target
// directory and renames it over the blob, so a failed save never
// leaves a partial write visible.
func (m *Manager) write(snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".storedata-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}
