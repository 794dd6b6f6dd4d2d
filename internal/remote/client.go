// Package remote talks to the remote ledger service, the single source of
// truth for all financial entities. JSON over HTTP, one resource per path,
// scoped to the authenticated principal by a bearer token.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"financas/internal/auth"
	"financas/internal/core"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *auth.Session
}

// NewClient builds a ledger client. No request timeout is set here; callers
// control lifetime through the context, and in-flight fetches are allowed
// to settle even when nobody is waiting anymore.
func NewClient(baseURL string, session *auth.Session) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		session: session,
	}
}

// do issues one request and translates the response status into the domain
// failure taxonomy: 400 validation, 404 not-found/ownership, anything else
// non-2xx (and any network failure) transport.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", core.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s: %v", core.ErrTransport, method, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", core.ErrValidation, remoteMessage(resp))
	case resp.StatusCode == http.StatusNotFound:
		// Ownership violations answer 404 as well; the distinction never
		// crosses the wire.
		return fmt.Errorf("%w: %s %s", core.ErrNotFound, method, path)
	default:
		return fmt.Errorf("%w: %s %s: status %d", core.ErrTransport, method, path, resp.StatusCode)
	}
}

func remoteMessage(resp *http.Response) string {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
		return er.Error
	}
	return "invalid request"
}

// --- users ---

func (c *Client) listUsers(ctx context.Context) ([]userRow, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// --- categories ---

func (c *Client) listCategories(ctx context.Context) ([]categoryRow, error) {
	var out categoriesResponse
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// --- accounts ---

type AccountFilter struct {
	ActiveOnly bool
	Type       core.AccountType
}

func (c *Client) listAccounts(ctx context.Context, f AccountFilter) ([]accountRow, error) {
	query := url.Values{}
	if f.ActiveOnly {
		query.Set("ativo", "true")
	}
	if f.Type != "" {
		query.Set("tipo", accountTypeCodes[f.Type])
	}
	var out accountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (c *Client) createAccount(ctx context.Context, req createAccountRequest) (accountRow, error) {
	var out accountRow
	err := c.do(ctx, http.MethodPost, "/accounts", nil, req, &out)
	return out, err
}

func (c *Client) updateAccount(ctx context.Context, req updateAccountRequest) (accountRow, error) {
	var out accountRow
	err := c.do(ctx, http.MethodPut, "/accounts", nil, req, &out)
	return out, err
}

// deleteAccount soft-deactivates an account that still has transactions;
// force hard-deletes it.
func (c *Client) deleteAccount(ctx context.Context, id string, force bool) error {
	query := url.Values{"id": {id}}
	if force {
		query.Set("force", "true")
	}
	return c.do(ctx, http.MethodDelete, "/accounts", query, nil, nil)
}

// --- transactions ---

type TransactionFilter struct {
	CategoryID string
	AccountID  string
	Kind       core.TransactionKind
	Ownership  core.OwnershipScope
	From       string // wire date, inclusive
	To         string
	Limit      int
	Offset     int
}

func (f TransactionFilter) query() url.Values {
	q := url.Values{}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.AccountID != "" {
		q.Set("accountId", f.AccountID)
	}
	if f.Kind != "" {
		q.Set("tipo", txKindCodes[f.Kind])
	}
	if f.Ownership != "" {
		q.Set("ownership", ownershipCodes[f.Ownership])
	}
	if f.From != "" {
		q.Set("dataInicio", f.From)
	}
	if f.To != "" {
		q.Set("dataFim", f.To)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

func (c *Client) listTransactions(ctx context.Context, f TransactionFilter) (transactionsResponse, error) {
	var out transactionsResponse
	err := c.do(ctx, http.MethodGet, "/transactions", f.query(), nil, &out)
	return out, err
}

func (c *Client) createTransaction(ctx context.Context, req createTransactionRequest) (transactionRow, error) {
	var out transactionRow
	err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &out)
	return out, err
}

// createInstallments creates the whole group in one atomic remote batch:
// either every row is durably created or none are.
func (c *Client) createInstallments(ctx context.Context, req createTransactionRequest) (batchCreateResponse, error) {
	var out batchCreateResponse
	err := c.do(ctx, http.MethodPost, "/transactions", nil, req, &out)
	return out, err
}

func (c *Client) updateTransaction(ctx context.Context, req updateTransactionRequest) (transactionRow, error) {
	var out transactionRow
	err := c.do(ctx, http.MethodPut, "/transactions", nil, req, &out)
	return out, err
}

func (c *Client) deleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions", url.Values{"id": {id}}, nil, nil)
}

// --- goals ---

func (c *Client) listGoals(ctx context.Context) ([]goalRow, error) {
	var out goalsResponse
	if err := c.do(ctx, http.MethodGet, "/goals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

func (c *Client) createGoal(ctx context.Context, req createGoalRequest) (goalRow, error) {
	var out goalRow
	err := c.do(ctx, http.MethodPost, "/goals", nil, req, &out)
	return out, err
}

func (c *Client) updateGoal(ctx context.Context, req updateGoalRequest) (goalRow, error) {
	var out goalRow
	err := c.do(ctx, http.MethodPut, "/goals", nil, req, &out)
	return out, err
}

func (c *Client) progressGoal(ctx context.Context, req progressGoalRequest) (goalRow, error) {
	var out goalRow
	err := c.do(ctx, http.MethodPatch, "/goals", nil, req, &out)
	return out, err
}

func (c *Client) deleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/goals", url.Values{"id": {id}}, nil, nil)
}

// --- investments ---

func (c *Client) listInvestments(ctx context.Context) ([]investmentRow, error) {
	var out investmentsResponse
	if err := c.do(ctx, http.MethodGet, "/investments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Investments, nil
}
