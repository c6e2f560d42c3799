package rbm

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scope required to call the Business Messages send API.
const messagingScope = "https://www.googleapis.com/auth/businessmessages"

// LoadTokenSource builds an OAuth2 token source from a service-account JSON
// key. The key is read from the GOOGLE_APPLICATION_CREDENTIALS env var when
// set, otherwise from path.
func LoadTokenSource(ctx context.Context, path string) (oauth2.TokenSource, error) {
	if envPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); envPath != "" {
		path = envPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file %s: %w", path, err)
	}

	cfg, err := google.JWTConfigFromJSON(data, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return cfg.TokenSource(ctx), nil
}
