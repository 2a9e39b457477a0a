package viewmodel

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/idilsaglam/checklist/internal/model"
)

func loadedItems(t *testing.T, f *fixture, names ...string) (*Items, model.Checklist) {
	t.Helper()
	cl := f.srv.AddChecklist("list", names...)
	vm := NewItems(f.deps, f.client, cl.ID)
	if err := vm.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.srv.ResetRequests()
	return vm, cl
}

func TestToggleSendsComplement(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "milk")
	it := vm.State().Items[0]
	path := "/checklist/" + cl.ID.String() + "/item/" + it.ID.String()

	if err := vm.ToggleStatus(context.Background(), it.ID, false); err != nil {
		t.Fatal(err)
	}
	if err := vm.ToggleStatus(context.Background(), it.ID, true); err != nil {
		t.Fatal(err)
	}

	var sent []any
	for _, r := range f.srv.Requests() {
		if r.Method == http.MethodPut && r.Path == path {
			sent = append(sent, r.Body["itemCompletionStatus"])
		}
	}
	if len(sent) != 2 || sent[0] != "completed" || sent[1] != "pending" {
		t.Errorf("sent statuses = %v, want [completed pending]", sent)
	}
	if n := f.srv.Count(http.MethodGet, "/checklist/"+cl.ID.String()+"/item"); n != 2 {
		t.Errorf("refetches = %d, want 2", n)
	}
}

func TestUpsertRenamesWhenEditing(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "milk")
	it := vm.State().Items[0]

	vm.BeginEdit(it)
	if st := vm.State(); st.Input != "milk" || st.EditingID != it.ID {
		t.Fatalf("edit state = %+v", st)
	}
	vm.SetInput("oat milk")
	if err := vm.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	rename := "/checklist/" + cl.ID.String() + "/item/rename/" + it.ID.String()
	if n := f.srv.Count(http.MethodPut, rename); n != 1 {
		t.Errorf("rename calls = %d, want 1", n)
	}
	if n := f.srv.CountMethod(http.MethodPost); n != 0 {
		t.Errorf("create calls = %d, want 0", n)
	}
	st := vm.State()
	if st.EditingID != "" || st.Input != "" {
		t.Errorf("form not cleared: %+v", st)
	}
	if len(st.Items) != 1 || st.Items[0].Name != "oat milk" {
		t.Errorf("items = %+v", st.Items)
	}
}

func TestUpsertCreatesWhenNotEditing(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f)

	if err := vm.Upsert(context.Background(), "bread", ""); err != nil {
		t.Fatal(err)
	}
	if n := f.srv.Count(http.MethodPost, "/checklist/"+cl.ID.String()+"/item"); n != 1 {
		t.Errorf("create calls = %d, want 1", n)
	}
	if n := f.srv.CountMethod(http.MethodPut); n != 0 {
		t.Errorf("put calls = %d, want 0", n)
	}
	if st := vm.State(); len(st.Items) != 1 || st.Items[0].Name != "bread" {
		t.Errorf("items = %+v", st.Items)
	}
}

func TestUpsertEmptyNameIsNoop(t *testing.T) {
	f := newFixture(t)
	vm, _ := loadedItems(t, f)
	if err := vm.Upsert(context.Background(), " \t", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v", err)
	}
	if n := len(f.srv.Requests()); n != 0 {
		t.Errorf("sent %d requests", n)
	}
}

// A failed upsert clears the form but does not reload the list.
func TestUpsertFailureSkipsRefetch(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "milk")
	it := vm.State().Items[0]
	f.srv.Fail(http.MethodPut, "/checklist/"+cl.ID.String()+"/item/rename/"+it.ID.String(), http.StatusInternalServerError)

	vm.BeginEdit(it)
	if err := vm.Upsert(context.Background(), "oat milk", it.ID); err == nil {
		t.Fatal("expected error")
	}
	if n := f.srv.CountMethod(http.MethodGet); n != 0 {
		t.Errorf("refetches after failure = %d, want 0", n)
	}
	if st := vm.State(); st.EditingID != "" || st.Input != "" {
		t.Errorf("form not cleared after failure: %+v", st)
	}
}

func TestDeleteItemRefetches(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "a", "b")
	it := vm.State().Items[0]

	if err := vm.Delete(context.Background(), it.ID); err != nil {
		t.Fatal(err)
	}
	reqs := f.srv.Requests()
	if len(reqs) != 2 || reqs[0].Method != http.MethodDelete || reqs[1].Key() != "GET /checklist/"+cl.ID.String()+"/item" {
		t.Errorf("requests = %+v", reqs)
	}
	if st := vm.State(); len(st.Items) != 1 || st.Items[0].Name != "b" {
		t.Errorf("items = %+v", st.Items)
	}
}

func TestDeleteAllIssuesOneDeletePerItemThenOneRefetch(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "a", "b", "c", "d", "e")

	if !vm.RequestDeleteAll() {
		t.Fatal("RequestDeleteAll refused a non-empty list")
	}
	if vm.State().Phase != ConfirmingAll {
		t.Fatalf("phase = %v", vm.State().Phase)
	}
	if n := len(f.srv.Requests()); n != 0 {
		t.Fatalf("prompt sent %d requests", n)
	}
	if err := vm.ConfirmDeleteAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	if n := f.srv.CountMethod(http.MethodDelete); n != 5 {
		t.Errorf("deletes = %d, want 5", n)
	}
	if n := f.srv.Count(http.MethodGet, "/checklist/"+cl.ID.String()+"/item"); n != 1 {
		t.Errorf("refetches = %d, want 1", n)
	}
	reqs := f.srv.Requests()
	if last := reqs[len(reqs)-1]; last.Method != http.MethodGet {
		t.Errorf("last request = %s, want the refetch", last.Key())
	}
	st := vm.State()
	if st.Phase != Idle || len(st.Items) != 0 {
		t.Errorf("state = %+v", st)
	}
}

func TestDeleteAllPartialFailureStillRefetchesOnce(t *testing.T) {
	f := newFixture(t)
	vm, cl := loadedItems(t, f, "a", "b", "c")
	stuck := vm.State().Items[1]
	f.srv.Fail(http.MethodDelete, "/checklist/"+cl.ID.String()+"/item/"+stuck.ID.String(), http.StatusInternalServerError)

	vm.RequestDeleteAll()
	if err := vm.ConfirmDeleteAll(context.Background()); err == nil {
		t.Fatal("expected aggregate error")
	}
	if n := f.srv.CountMethod(http.MethodDelete); n != 3 {
		t.Errorf("deletes = %d, want 3", n)
	}
	if n := f.srv.CountMethod(http.MethodGet); n != 1 {
		t.Errorf("refetches = %d, want 1", n)
	}
	st := vm.State()
	if st.Phase != Idle {
		t.Errorf("phase = %v", st.Phase)
	}
	if len(st.Items) != 1 || st.Items[0].ID != stuck.ID {
		t.Errorf("items = %+v, want only the item the server kept", st.Items)
	}
}

func TestDeleteAllOnEmptyListDoesNothing(t *testing.T) {
	f := newFixture(t)
	vm, _ := loadedItems(t, f)
	if vm.RequestDeleteAll() {
		t.Error("empty list should not open the prompt")
	}
	if err := vm.ConfirmDeleteAll(context.Background()); !errors.Is(err, ErrNothingToConfirm) {
		t.Errorf("err = %v", err)
	}
	vm.CancelDeleteAll()
	if n := len(f.srv.Requests()); n != 0 {
		t.Errorf("sent %d requests", n)
	}
}

func TestProgress(t *testing.T) {
	f := newFixture(t)
	vm, _ := loadedItems(t, f, "a", "b")
	if err := vm.ToggleStatus(context.Background(), vm.State().Items[0].ID, false); err != nil {
		t.Fatal(err)
	}
	if done, total := vm.Progress(); done != 1 || total != 2 {
		t.Errorf("Progress = %d/%d, want 1/2", done, total)
	}
}

// createHook runs during before each item create reaches the server.
type createHook struct {
	ItemService
	during func()
}

func (h createHook) CreateItem(ctx context.Context, checklistID model.ID, name string) error {
	h.during()
	return h.ItemService.CreateItem(ctx, checklistID, name)
}

func TestUpsertKeepsEditStartedMeanwhile(t *testing.T) {
	f := newFixture(t)
	cl := f.srv.AddChecklist("list", "milk")
	milk := cl.Items[0]

	var vm *Items
	vm = NewItems(f.deps, createHook{f.client, func() { vm.BeginEdit(milk) }}, cl.ID)
	if err := vm.Upsert(context.Background(), "bread", ""); err != nil {
		t.Fatal(err)
	}

	st := vm.State()
	if st.EditingID != milk.ID || st.Input != "milk" {
		t.Errorf("edit of milk was cleared: %+v", st)
	}
	if len(st.Items) != 2 {
		t.Errorf("items = %+v", st.Items)
	}
}
