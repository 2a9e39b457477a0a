package api

import (
	"context"
	"net/url"

	"github.com/idilsaglam/checklist/internal/model"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type tokenData struct {
	Token string `json:"token"`
}

type nameBody struct {
	Name string `json:"name"`
}

type itemNameBody struct {
	ItemName string `json:"itemName"`
}

type statusBody struct {
	ItemCompletionStatus model.Status `json:"itemCompletionStatus"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	env, err := c.Post(ctx, "/login", credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := decode(env, CheckData, &td); err != nil || td.Token == "" {
		return "", ErrNoToken
	}
	return td.Token, nil
}

// Register creates an account. Servers that log the user straight in
// return a token; otherwise the returned token is "".
func (c *Client) Register(ctx context.Context, username, password, email string) (string, error) {
	env, err := c.Post(ctx, "/register", credentials{Username: username, Password: password, Email: email})
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := decode(env, CheckNone, &td); err != nil {
		// data present but not a token object, still a successful registration
		return "", nil
	}
	return td.Token, nil
}

func (c *Client) ListChecklists(ctx context.Context) ([]model.Checklist, error) {
	env, err := c.Get(ctx, "/checklist")
	if err != nil {
		return nil, err
	}
	out := []model.Checklist{}
	if err := decode(env, CheckStatusCode, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChecklist(ctx context.Context, name string) (*model.Checklist, error) {
	env, err := c.Post(ctx, "/checklist", nameBody{Name: name})
	if err != nil {
		return nil, err
	}
	var cl model.Checklist
	if err := decode(env, CheckData, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *Client) DeleteChecklist(ctx context.Context, id model.ID) error {
	_, err := c.Delete(ctx, checklistPath(id))
	return err
}

func (c *Client) ListItems(ctx context.Context, checklistID model.ID) ([]model.Item, error) {
	env, err := c.Get(ctx, itemsPath(checklistID))
	if err != nil {
		return nil, err
	}
	out := []model.Item{}
	if err := decode(env, CheckNone, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, checklistID model.ID, name string) error {
	_, err := c.Post(ctx, itemsPath(checklistID), itemNameBody{ItemName: name})
	return err
}

func (c *Client) RenameItem(ctx context.Context, checklistID, itemID model.ID, name string) error {
	_, err := c.Put(ctx, itemsPath(checklistID)+"/rename/"+url.PathEscape(itemID.String()), itemNameBody{ItemName: name})
	return err
}

func (c *Client) SetItemStatus(ctx context.Context, checklistID, itemID model.ID, status model.Status) error {
	_, err := c.Put(ctx, itemPath(checklistID, itemID), statusBody{ItemCompletionStatus: status})
	return err
}

func (c *Client) DeleteItem(ctx context.Context, checklistID, itemID model.ID) error {
	_, err := c.Delete(ctx, itemPath(checklistID, itemID))
	return err
}

func checklistPath(id model.ID) string { return "/checklist/" + url.PathEscape(id.String()) }

func itemsPath(checklistID model.ID) string { return checklistPath(checklistID) + "/item" }

func itemPath(checklistID, itemID model.ID) string {
	return itemsPath(checklistID) + "/" + url.PathEscape(itemID.String())
}
