package dashboard

import (
	"context"
	"fmt"
	"sync"
)

// Deletion is the two-step delete control: Request opens a confirmation,
// Confirm sends the delete and Cancel discards it.
type Deletion struct {
	backend    Backend
	notifier   Notifier
	refreshers []Refresher

	mu      sync.Mutex
	pending *Record
}

func NewDeletion(backend Backend, notifier Notifier, refreshers ...Refresher) *Deletion {
	return &Deletion{
		backend:    backend,
		notifier:   notifier,
		refreshers: refreshers,
	}
}

func (d *Deletion) Request(r Record) {
	d.mu.Lock()
	d.pending = &r
	d.mu.Unlock()
}

func (d *Deletion) Pending() (Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return Record{}, false
	}
	return *d.pending, true
}

func (d *Deletion) Cancel() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

// Confirm deletes the pending record. On failure the confirmation stays
// pending so it can be retried or cancelled.
func (d *Deletion) Confirm(ctx context.Context) error {
	record, ok := d.Pending()
	if !ok {
		return ErrNothingPending
	}

	if err := d.backend.Delete(ctx, record.ID); err != nil {
		notify(d.notifier, Failure(MsgCustomerDeleteFailed, err))
		return fmt.Errorf("delete customer: %w", err)
	}

	d.mu.Lock()
	if d.pending != nil && d.pending.ID == record.ID {
		d.pending = nil
	}
	d.mu.Unlock()

	notify(d.notifier, Success(MsgCustomerDeleted))
	for _, r := range d.refreshers {
		_ = r.Refresh(ctx)
	}
	return nil
}
