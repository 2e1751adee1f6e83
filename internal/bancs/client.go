// Package bancs provides typed calls for the most used BaNCS core endpoints.
// They build the request by hand and share the executor used by the generic
// invoke path. Unlike the generic path, CreateAccount sends the request body
// as the JSON document itself rather than wrapped under "request_body".
package bancs

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/bobmcallan/bancs-mcp/internal/catalog"
	"github.com/bobmcallan/bancs-mcp/internal/common"
	"github.com/bobmcallan/bancs-mcp/internal/executor"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// Executor performs one upstream call.
type Executor interface {
	Execute(ctx context.Context, req executor.Request) result.Result
}

// Client wraps an Executor with typed BaNCS operations.
type Client struct {
	exec   Executor
	logger *common.Logger
}

// NewClient creates a Client.
func NewClient(exec Executor, logger *common.Logger) *Client {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{exec: exec, logger: logger}
}

// CreateAccountParams are the inputs of an account creation.
// Nil optionals are not sent.
type CreateAccountParams struct {
	RequestBody  any
	Entity       *string
	LanguageCode *int
	UserID       *int
}

// AccountBalanceParams are the inputs of a balance enquiry.
// Nil optionals are not sent.
type AccountBalanceParams struct {
	AccountReference string
	AccessToken      *string
	ChannelType      *int
	CoRelationID     *int
	InitiatingSystem *string
	ServiceMode      *int
	UUIDSeqNo        *int
	Entity           *string
	LanguageCode     *int
	ReferenceID      *string
	UserID           *int
}

// CreateAccount opens an account for a customer.
// POST /accountManagement/account
func (c *Client) CreateAccount(ctx context.Context, p CreateAccountParams) result.Result {
	if p.RequestBody == nil {
		return result.Fail(result.MissingParameters([]string{catalog.RequestBodyParam}, nil))
	}

	h := headers{}
	h.setString(catalog.HeaderEntity, p.Entity)
	h.setInt(catalog.HeaderLanguageCode, p.LanguageCode)
	h.setInt(catalog.HeaderUserID, p.UserID)

	c.logger.Debug().Int("headers", len(h)).Msg("create account")
	return c.exec.Execute(ctx, executor.Request{
		Method:  string(catalog.MethodPost),
		Path:    "/accountManagement/account",
		Body:    p.RequestBody,
		Headers: h.orNil(),
	})
}

// GetAccountBalance fetches balance details for one account.
// GET /accountManagement/account/balanceDetails/{accountReference}
func (c *Client) GetAccountBalance(ctx context.Context, p AccountBalanceParams) result.Result {
	if strings.TrimSpace(p.AccountReference) == "" {
		return result.Fail(result.MissingParameters([]string{"accountReference"}, nil))
	}

	h := headers{}
	h.setString(catalog.HeaderAccessToken, p.AccessToken)
	h.setInt(catalog.HeaderChannelType, p.ChannelType)
	h.setInt(catalog.HeaderCoRelationID, p.CoRelationID)
	h.setString(catalog.HeaderInitiatingSystem, p.InitiatingSystem)
	h.setInt(catalog.HeaderServiceMode, p.ServiceMode)
	h.setInt(catalog.HeaderUUIDSeqNo, p.UUIDSeqNo)
	h.setString(catalog.HeaderEntity, p.Entity)
	h.setInt(catalog.HeaderLanguageCode, p.LanguageCode)
	h.setString(catalog.HeaderReferenceID, p.ReferenceID)
	h.setInt(catalog.HeaderUserID, p.UserID)

	c.logger.Debug().Str("account_reference", p.AccountReference).Int("headers", len(h)).Msg("get account balance")
	return c.exec.Execute(ctx, executor.Request{
		Method:  string(catalog.MethodGet),
		Path:    "/accountManagement/account/balanceDetails/" + url.PathEscape(p.AccountReference),
		Headers: h.orNil(),
	})
}

type headers map[string]string

func (h headers) setString(name string, v *string) {
	if v != nil {
		h[name] = *v
	}
}

func (h headers) setInt(name string, v *int) {
	if v != nil {
		h[name] = strconv.Itoa(*v)
	}
}

func (h headers) orNil() map[string]string {
	if len(h) == 0 {
		return nil
	}
	return h
}
