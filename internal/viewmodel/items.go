package viewmodel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/checklist/internal/model"
)

type ItemsState struct {
	ChecklistID model.ID
	Items       []model.Item
	Loading     bool
	Phase       Phase
	Input       string
	EditingID   model.ID // set while the form renames an item
}

// Items is the view-model of one checklist's page.
type Items struct {
	deps Deps
	svc  ItemService
	id   model.ID

	mu       sync.Mutex
	inflight int
	state    ItemsState
}

func NewItems(deps Deps, svc ItemService, checklistID model.ID) *Items {
	return &Items{deps: deps, svc: svc, id: checklistID, state: ItemsState{ChecklistID: checklistID}}
}

func (v *Items) State() ItemsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Items = append([]model.Item(nil), v.state.Items...)
	s.Loading = v.inflight > 0
	return s
}

// Progress counts completed items against the total.
func (v *Items) Progress() (done, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	done, pending := model.Stats(v.state.Items)
	return done, done + pending
}

func (v *Items) track() func() {
	v.mu.Lock()
	v.inflight++
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		v.inflight--
		v.mu.Unlock()
	}
}

// Load replaces local items with the server's.
func (v *Items) Load(ctx context.Context) error {
	defer v.track()()
	items, err := v.svc.ListItems(ctx, v.id)
	if err != nil {
		v.deps.fail("load items", err)
		return err
	}
	v.mu.Lock()
	v.state.Items = items
	v.mu.Unlock()
	return nil
}

func (v *Items) SetInput(s string) {
	v.mu.Lock()
	v.state.Input = s
	v.mu.Unlock()
}

// BeginEdit points the form at it: the next submit renames instead of creating.
func (v *Items) BeginEdit(it model.Item) {
	v.mu.Lock()
	v.state.Input = it.Name
	v.state.EditingID = it.ID
	v.mu.Unlock()
}

func (v *Items) CancelEdit() {
	v.mu.Lock()
	v.state.Input = ""
	v.state.EditingID = ""
	v.mu.Unlock()
}

// settleEdit clears the form after an upsert of editingID, unless the form
// has moved on to another item meanwhile.
func (v *Items) settleEdit(editingID model.ID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.EditingID != editingID {
		return
	}
	v.state.Input = ""
	v.state.EditingID = ""
}

// Submit upserts the form's current input and edit target.
func (v *Items) Submit(ctx context.Context) error {
	s := v.State()
	return v.Upsert(ctx, s.Input, s.EditingID)
}

// Upsert renames editingID when set and creates an item otherwise. The
// form is cleared either way; the list is reloaded only when the server
// accepted the change.
func (v *Items) Upsert(ctx context.Context, name string, editingID model.ID) error {
	if model.Blank(name) {
		return ErrEmptyName
	}
	name = strings.TrimSpace(name)

	done := v.track()
	var err error
	op := "create item"
	if editingID != "" {
		op = "rename item"
		err = v.svc.RenameItem(ctx, v.id, editingID, name)
	} else {
		err = v.svc.CreateItem(ctx, v.id, name)
	}
	done()
	v.settleEdit(editingID)

	if err != nil {
		v.deps.fail(op, err)
		return err
	}
	return v.Load(ctx)
}

func (v *Items) Delete(ctx context.Context, itemID model.ID) error {
	done := v.track()
	err := v.svc.DeleteItem(ctx, v.id, itemID)
	done()
	if err != nil {
		v.deps.fail("delete item", err)
		return err
	}
	return v.Load(ctx)
}

// ToggleStatus sends the complement of current.
func (v *Items) ToggleStatus(ctx context.Context, itemID model.ID, current bool) error {
	done := v.track()
	err := v.svc.SetItemStatus(ctx, v.id, itemID, model.Toggle(current))
	done()
	if err != nil {
		v.deps.fail("update item status", err)
		return err
	}
	return v.Load(ctx)
}

// RequestDeleteAll opens the bulk delete prompt. Nothing happens for an
// empty list.
func (v *Items) RequestDeleteAll() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.state.Items) == 0 || v.state.Phase != Idle {
		return false
	}
	v.state.Phase = ConfirmingAll
	return true
}

func (v *Items) CancelDeleteAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Phase == ConfirmingAll {
		v.state.Phase = Idle
	}
}

// ConfirmDeleteAll deletes every item held locally, all at once, and waits
// for every request to settle. A partial failure is reported as one error;
// the single reload afterwards shows whatever the server actually removed.
func (v *Items) ConfirmDeleteAll(ctx context.Context) error {
	v.mu.Lock()
	if v.state.Phase != ConfirmingAll {
		v.mu.Unlock()
		return ErrNothingToConfirm
	}
	v.state.Phase = Deleting
	items := append([]model.Item(nil), v.state.Items...)
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.state.Phase = Idle
		v.mu.Unlock()
	}()

	// no errgroup context: one failure must not cancel the other deletes
	var g errgroup.Group
	var failed atomic.Int32
	for _, it := range items {
		g.Go(func() error {
			if err := v.svc.DeleteItem(ctx, v.id, it.ID); err != nil {
				failed.Add(1)
				return fmt.Errorf("item %s: %w", it.ID, err)
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		err = fmt.Errorf("delete all: %d of %d failed: %w", failed.Load(), len(items), err)
		v.deps.fail("delete all items", err)
	}

	if lerr := v.Load(ctx); err == nil {
		err = lerr
	}
	return err
}
