// Package viewmodel holds the page logic of the client: what each user
// action sends to the server and how local state follows. Methods block
// until the server answers; callers that must stay responsive run them in
// the background.
package viewmodel

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/idilsaglam/checklist/internal/api"
	"github.com/idilsaglam/checklist/internal/model"
	"github.com/idilsaglam/checklist/internal/nav"
)

var (
	ErrEmptyName        = errors.New("name is empty")
	ErrMissingField     = errors.New("required field is empty")
	ErrNothingToConfirm = errors.New("nothing awaiting confirmation")
)

// Session is the credential holder shared by all view-models.
type Session interface {
	Authenticated() bool
	Set(token string) error
	Clear() error
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, email string) (string, error)
}

type ChecklistService interface {
	ListChecklists(ctx context.Context) ([]model.Checklist, error)
	CreateChecklist(ctx context.Context, name string) (*model.Checklist, error)
	DeleteChecklist(ctx context.Context, id model.ID) error
}

type ItemService interface {
	ListItems(ctx context.Context, checklistID model.ID) ([]model.Item, error)
	CreateItem(ctx context.Context, checklistID model.ID, name string) error
	RenameItem(ctx context.Context, checklistID, itemID model.ID, name string) error
	SetItemStatus(ctx context.Context, checklistID, itemID model.ID, status model.Status) error
	DeleteItem(ctx context.Context, checklistID, itemID model.ID) error
}

// Phase is where a page's delete confirmation flow stands.
type Phase int

const (
	Idle Phase = iota
	PendingConfirmation
	Confirmed
	ConfirmingAll
	Deleting
)

func (p Phase) String() string {
	switch p {
	case PendingConfirmation:
		return "pending-confirmation"
	case Confirmed:
		return "confirmed"
	case ConfirmingAll:
		return "confirming-all"
	case Deleting:
		return "deleting"
	}
	return "idle"
}

// Deps are shared by every view-model.
type Deps struct {
	Session Session
	Nav     nav.Navigator
	Logger  *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return d.Logger
}

// fail logs err and, for an authorization failure, drops the session and
// sends the user to login.
func (d Deps) fail(op string, err error) {
	d.logger().Printf("%s: %v", op, err)
	if !errors.Is(err, api.ErrUnauthorized) {
		return
	}
	if cerr := d.Session.Clear(); cerr != nil {
		d.logger().Printf("%s: %v", op, cerr)
	}
	d.Nav.Navigate(nav.PathLogin)
}
