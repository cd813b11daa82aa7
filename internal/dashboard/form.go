package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

type FormState struct {
	Open      bool
	Mode      FormMode
	EditingID snowflake.ID
	Fields    RecordInput
}

// RecordForm drives the create and edit dialogs.
type RecordForm struct {
	backend    Backend
	notifier   Notifier
	users      UserSource
	refreshers []Refresher

	mu    sync.Mutex
	state FormState
}

func NewRecordForm(backend Backend, notifier Notifier, users UserSource, refreshers ...Refresher) *RecordForm {
	return &RecordForm{
		backend:    backend,
		notifier:   notifier,
		users:      users,
		refreshers: refreshers,
	}
}

// OpenCreate opens the create dialog. Fields typed into an earlier create
// dialog are kept; fields left over from an edit are not.
func (f *RecordForm) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Mode != FormCreate {
		f.state = FormState{}
	}
	f.state.Open = true
	f.state.Mode = FormCreate
	f.state.EditingID = 0
}

// OpenEdit opens the edit dialog pre-populated from r.
func (f *RecordForm) OpenEdit(r Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{
		Open:      true,
		Mode:      FormEdit,
		EditingID: r.ID,
		Fields: RecordInput{
			Name:  r.Name,
			Email: r.Email,
			Phone: r.Phone,
			Notes: r.Notes,
		},
	}
}

func (f *RecordForm) SetFields(in RecordInput) {
	f.mu.Lock()
	f.state.Fields = in
	f.mu.Unlock()
}

func (f *RecordForm) Close() {
	f.mu.Lock()
	f.state.Open = false
	f.mu.Unlock()
}

func (f *RecordForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit sends exactly one insert or update for the open dialog.
func (f *RecordForm) Submit(ctx context.Context) (Record, error) {
	state := f.State()
	if !state.Open {
		return Record{}, ErrFormClosed
	}
	if state.Mode == FormEdit {
		return f.submitEdit(ctx, state)
	}
	return f.submitCreate(ctx, state)
}

func (f *RecordForm) submitCreate(ctx context.Context, state FormState) (Record, error) {
	user := f.currentUser()
	if user == 0 {
		notify(f.notifier, Notification{Level: LevelError, Title: MsgLoginRequired})
		return Record{}, ErrNotAuthenticated
	}

	record, err := f.backend.Insert(ctx, user, state.Fields)
	if err != nil {
		notify(f.notifier, Failure(MsgCustomerAddFailed, err))
		return Record{}, fmt.Errorf("insert customer: %w", err)
	}

	notify(f.notifier, Success(MsgCustomerAdded))
	f.mu.Lock()
	f.state = FormState{Mode: FormCreate}
	f.mu.Unlock()
	f.refresh(ctx)
	return record, nil
}

func (f *RecordForm) submitEdit(ctx context.Context, state FormState) (Record, error) {
	record, err := f.backend.Update(ctx, state.EditingID, state.Fields)
	if err != nil {
		notify(f.notifier, Failure(MsgCustomerUpdateFailed, err))
		return Record{}, fmt.Errorf("update customer: %w", err)
	}

	notify(f.notifier, Success(MsgCustomerUpdated))
	f.mu.Lock()
	f.state.Open = false
	f.mu.Unlock()
	f.refresh(ctx)
	return record, nil
}

func (f *RecordForm) currentUser() snowflake.ID {
	if f.users == nil {
		return 0
	}
	user := f.users.CurrentUser()
	if user == nil {
		return 0
	}
	return user.ID
}

func (f *RecordForm) refresh(ctx context.Context) {
	for _, r := range f.refreshers {
		_ = r.Refresh(ctx)
	}
}
