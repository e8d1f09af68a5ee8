package provider

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brewrank/brewrank/internal/model"
)

// Provider abstracts a place-search API (Google Places, Yelp Fusion).
type Provider interface {
	Name() string
	// Search runs the full paginated query and returns normalized records.
	Search(ctx context.Context, q model.SearchConfig) ([]model.ShopRecord, error)
}

// Env var names holding the API credentials. Loaded from the local .env file;
// never written to any output.
const (
	EnvGoogleKey = "GOOGLE_PLACES_API_KEY"
	EnvYelpKey   = "YELP_API_KEY"
)

// FromEnv builds the requested providers, reading credentials from the
// environment. A missing credential for an explicitly requested provider is a
// hard error, reported before any network call is made.
func FromEnv(names []string, client *Client) ([]Provider, error) {
	var providers []Provider
	var missing []string

	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case model.ProviderGoogle:
			key := os.Getenv(EnvGoogleKey)
			if key == "" {
				missing = append(missing, fmt.Sprintf("%s (provider %q)", EnvGoogleKey, model.ProviderGoogle))
				continue
			}
			providers = append(providers, NewGoogle(client, key))
		case model.ProviderYelp:
			key := os.Getenv(EnvYelpKey)
			if key == "" {
				missing = append(missing, fmt.Sprintf("%s (provider %q)", EnvYelpKey, model.ProviderYelp))
				continue
			}
			providers = append(providers, NewYelp(client, key))
		default:
			return nil, fmt.Errorf("unknown provider %q (expected %q or %q)", name, model.ProviderGoogle, model.ProviderYelp)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing API credentials: %s", strings.Join(missing, ", "))
	}

	return providers, nil
}
