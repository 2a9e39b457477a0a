package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/idilsaglam/checklist/internal/api/apitest"
	"github.com/idilsaglam/checklist/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestLoginStoresNothingWithoutToken(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ada", "secret")
	c := New(srv.BaseURL(), staticToken(""))

	tok, err := c.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	srv.LoginOmitsToken(true)
	if _, err := c.Login(context.Background(), "ada", "secret"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Login without token err = %v, want ErrNoToken", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("ada", "secret")
	c := New(srv.BaseURL(), staticToken(""))

	_, err := c.Login(context.Background(), "ada", "wrong")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Message != "invalid username or password" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.RequestID == "" {
		t.Error("RequestID should be set")
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.IssueToken()
	c := New(srv.BaseURL(), staticToken(tok))

	if _, err := c.ListChecklists(context.Background()); err != nil {
		t.Fatal(err)
	}
	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Auth != "Bearer "+tok {
		t.Errorf("Authorization = %q", reqs[0].Auth)
	}
}

func TestUnauthorizedIsDetectable(t *testing.T) {
	srv := apitest.New(t)
	c := New(srv.BaseURL(), staticToken("stale"))

	_, err := c.ListChecklists(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	srv.Fail(http.MethodDelete, "/checklist/9", http.StatusInternalServerError)
	err = c.DeleteChecklist(context.Background(), "9")
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("500 err = %v, want non-auth error", err)
	}
}

func TestEndpointsHitDocumentedPaths(t *testing.T) {
	srv := apitest.New(t)
	c := New(srv.BaseURL(), staticToken(srv.IssueToken()))
	ctx := context.Background()

	cl, err := c.CreateChecklist(ctx, "groceries")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.CreateItem(ctx, cl.ID, "milk"); err != nil {
		t.Fatal(err)
	}
	items, err := c.ListItems(ctx, cl.ID)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListItems = %v, %v", items, err)
	}
	it := items[0]
	if err := c.RenameItem(ctx, cl.ID, it.ID, "oat milk"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetItemStatus(ctx, cl.ID, it.ID, model.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteItem(ctx, cl.ID, it.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteChecklist(ctx, cl.ID); err != nil {
		t.Fatal(err)
	}

	want := []struct {
		key  string
		body map[string]any
	}{
		{"POST /checklist", map[string]any{"name": "groceries"}},
		{"POST /checklist/" + cl.ID.String() + "/item", map[string]any{"itemName": "milk"}},
		{"GET /checklist/" + cl.ID.String() + "/item", nil},
		{"PUT /checklist/" + cl.ID.String() + "/item/rename/" + it.ID.String(), map[string]any{"itemName": "oat milk"}},
		{"PUT /checklist/" + cl.ID.String() + "/item/" + it.ID.String(), map[string]any{"itemCompletionStatus": "completed"}},
		{"DELETE /checklist/" + cl.ID.String() + "/item/" + it.ID.String(), nil},
		{"DELETE /checklist/" + cl.ID.String(), nil},
	}
	reqs := srv.Requests()
	if len(reqs) != len(want) {
		t.Fatalf("requests = %d, want %d", len(reqs), len(want))
	}
	for i, w := range want {
		if reqs[i].Key() != w.key {
			t.Errorf("request %d = %s, want %s", i, reqs[i].Key(), w.key)
		}
		for k, v := range w.body {
			if reqs[i].Body[k] != v {
				t.Errorf("request %d body[%s] = %v, want %v", i, k, reqs[i].Body[k], v)
			}
		}
	}
}

func TestListChecklistsRequiresSuccessCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"statusCode":5000,"message":"db down","data":[]}`))
	}))
	defer ts.Close()

	c := New(ts.URL, staticToken("x"))
	_, err := c.ListChecklists(context.Background())
	if !errors.Is(err, ErrUnexpectedEnvelope) {
		t.Fatalf("err = %v, want ErrUnexpectedEnvelope", err)
	}
}

func TestListItemsToleratesNullData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":2000,"message":"ok","data":null}`))
	}))
	defer ts.Close()

	c := New(ts.URL, staticToken("x"))
	items, err := c.ListItems(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %#v, want empty slice", items)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		check   Check
		wantErr bool
	}{
		{name: "none accepts anything", env: Envelope{StatusCode: 1}, check: CheckNone},
		{name: "status code match", env: Envelope{StatusCode: SuccessCode}, check: CheckStatusCode},
		{name: "status code mismatch", env: Envelope{StatusCode: 2000}, check: CheckStatusCode, wantErr: true},
		{name: "data present", env: Envelope{Data: []byte(`{"id":1}`)}, check: CheckData},
		{name: "data null", env: Envelope{Data: []byte(`null`)}, check: CheckData, wantErr: true},
		{name: "data absent", env: Envelope{}, check: CheckData, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := decode(&tc.env, tc.check, nil)
			if (err != nil) != tc.wantErr {
				t.Fatalf("decode err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestWithTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}
	c := New("http://example.invalid/api", staticToken(""), WithHTTPClient(shared), WithTimeout(time.Second))

	if shared.Timeout != 0 {
		t.Errorf("shared client timeout changed to %v", shared.Timeout)
	}
	if c.http.Timeout != time.Second {
		t.Errorf("client timeout = %v, want 1s", c.http.Timeout)
	}
}
