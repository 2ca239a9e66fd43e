package broker

//go:generate mockgen -source=broker.go -destination=mock_broker.go -package=broker

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
)

const (
	AngelOne = "angelone"
	Dhan     = "dhan"
	Fyers    = "fyers"
	Upstox   = "upstox"
)

// Credential bundle keys as users enter them and as they are stored.
const (
	KeyAPIKey       = "API Key"
	KeyAPISecret    = "API Secret"
	KeyClientID     = "Client ID"
	KeyClientCode   = "Client Code"
	KeyPIN          = "PIN"
	KeyAccessToken  = "Access Token"
	KeyRefreshToken = "Refresh Token"
	KeyFeedToken    = "Feed Token"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

type Tokens struct {
	AccessToken  string
	RefreshToken string
	FeedToken    string
}

// Merge returns a copy of creds with the non-empty tokens written over it.
func (t Tokens) Merge(creds map[string]string) map[string]string {
	out := make(map[string]string, len(creds)+3)
	for k, v := range creds {
		out[k] = v
	}
	if t.AccessToken != "" {
		out[KeyAccessToken] = t.AccessToken
	}
	if t.RefreshToken != "" {
		out[KeyRefreshToken] = t.RefreshToken
	}
	if t.FeedToken != "" {
		out[KeyFeedToken] = t.FeedToken
	}
	return out
}

// ClearTokens returns a copy of creds without session tokens. Keys listed in
// keep survive; brokers whose token the user enters list it there.
func ClearTokens(creds map[string]string, keep ...string) map[string]string {
	out := make(map[string]string, len(creds))
	for k, v := range creds {
		switch k {
		case KeyAccessToken, KeyRefreshToken, KeyFeedToken:
			if !slices.Contains(keep, k) {
				continue
			}
		}
		out[k] = v
	}
	return out
}

type AuthParams struct {
	// State is echoed back by OAuth brokers on the callback.
	State string
	TOTP  string
}

// AuthResult carries either a redirect for OAuth brokers or tokens for
// brokers that log in directly.
type AuthResult struct {
	RedirectURL string
	Tokens      *Tokens
}

type OrderResult struct {
	OrderID string          `json:"order_id"`
	Raw     json.RawMessage `json:"raw"`
}

type Adapter interface {
	Name() string
	RequiredKeys() []string
	Authenticate(ctx context.Context, creds map[string]string, params AuthParams) (AuthResult, error)
	ExchangeCode(ctx context.Context, creds map[string]string, code string) (Tokens, error)
	Refresh(ctx context.Context, creds map[string]string) (Tokens, error)
	Profile(ctx context.Context, creds map[string]string) (json.RawMessage, error)
	PlaceOrder(ctx context.Context, creds map[string]string, order json.RawMessage) (OrderResult, error)
	CancelOrder(ctx context.Context, creds map[string]string, orderID string) (json.RawMessage, error)
	Funds(ctx context.Context, creds map[string]string) (json.RawMessage, error)
	Positions(ctx context.Context, creds map[string]string) (json.RawMessage, error)
	Logout(ctx context.Context, creds map[string]string) error
}

type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, ErrUnsupportedBroker
	}
	return a, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require checks that every key is present and non-empty.
func Require(broker string, creds map[string]string, keys ...string) error {
	for _, key := range keys {
		if creds[key] == "" {
			return &MissingCredentialError{Broker: broker, Key: key}
		}
	}
	return nil
}
