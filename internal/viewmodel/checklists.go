package viewmodel

import (
	"context"
	"strings"
	"sync"

	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/nav"
)

type ChecklistsState struct {
	Checklists []model.Checklist
	Loading    bool
	Phase      Phase
	Pending    *model.Checklist // checklist awaiting delete confirmation
}

// Checklists is the view-model of the checklists page.
type Checklists struct {
	deps Deps
	svc  ChecklistService

	mu       sync.Mutex
	inflight int
	state    ChecklistsState
}

func NewChecklists(deps Deps, svc ChecklistService) *Checklists {
	return &Checklists{deps: deps, svc: svc}
}

// State returns a copy safe to read while requests are running.
func (c *Checklists) State() ChecklistsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Checklists = append([]model.Checklist(nil), c.state.Checklists...)
	if c.state.Pending != nil {
		p := *c.state.Pending
		s.Pending = &p
	}
	s.Loading = c.inflight > 0
	return s
}

func (c *Checklists) track() func() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}
}

// Load replaces local state with the server's list, in server order. On
// failure prior state is kept.
func (c *Checklists) Load(ctx context.Context) error {
	defer c.track()()
	list, err := c.svc.ListChecklists(ctx)
	if err != nil {
		c.deps.fail("load checklists", err)
		return err
	}
	c.mu.Lock()
	c.state.Checklists = list
	c.mu.Unlock()
	return nil
}

// Create adds a checklist and reloads the list from the server.
func (c *Checklists) Create(ctx context.Context, name string) error {
	if model.Blank(name) {
		return ErrEmptyName
	}
	done := c.track()
	_, err := c.svc.CreateChecklist(ctx, strings.TrimSpace(name))
	done()
	if err != nil {
		c.deps.fail("create checklist", err)
		return err
	}
	return c.Load(ctx)
}

// RequestDelete deletes an empty checklist right away. A checklist that
// still has items is parked for confirmation and prompted reports true.
func (c *Checklists) RequestDelete(ctx context.Context, cl model.Checklist) (prompted bool, err error) {
	if cl.HasItems() {
		c.mu.Lock()
		c.state.Phase = PendingConfirmation
		c.state.Pending = &cl
		c.mu.Unlock()
		return true, nil
	}
	return false, c.delete(ctx, cl.ID)
}

// ConfirmDelete deletes the checklist awaiting confirmation. The flow is
// back to Idle once the request settles, whatever its outcome.
func (c *Checklists) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PendingConfirmation || c.state.Pending == nil {
		c.mu.Unlock()
		return ErrNothingToConfirm
	}
	id := c.state.Pending.ID
	c.state.Phase = Confirmed
	c.mu.Unlock()

	defer c.settle(id)
	return c.delete(ctx, id)
}

// settle closes the confirmation for id unless another checklist has
// been put up for confirmation meanwhile.
func (c *Checklists) settle(id model.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Pending != nil && c.state.Pending.ID != id {
		return
	}
	c.state.Phase = Idle
	c.state.Pending = nil
}

func (c *Checklists) CancelDelete() {
	c.mu.Lock()
	c.state.Phase = Idle
	c.state.Pending = nil
	c.mu.Unlock()
}

func (c *Checklists) delete(ctx context.Context, id model.ID) error {
	done := c.track()
	err := c.svc.DeleteChecklist(ctx, id)
	done()
	if err != nil {
		c.deps.fail("delete checklist", err)
		return err
	}
	return c.Load(ctx)
}

// Logout forgets the token locally; the server is not told.
func (c *Checklists) Logout() error {
	err := c.deps.Session.Clear()
	c.deps.Nav.Navigate(nav.PathLogin)
	return err
}
