// Package fhirauth supplies the bearer token forwarded to the observation
// fetch tool for reading the FHIR server.
package fhirauth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"patientbot/internal/platform/config"
)

// Mode names how tokens are obtained.
type Mode string

const (
	ModeClientCredentials Mode = "client_credentials"
	ModeStatic            Mode = "static"
	ModeNone              Mode = "none"
)

// ModeFor reports which token source cfg selects.
func ModeFor(cfg config.FHIRAuthConfig) Mode {
	switch {
	case cfg.UsesClientCredentials():
		return ModeClientCredentials
	case cfg.StaticToken != "":
		return ModeStatic
	default:
		return ModeNone
	}
}

// NewTokenSource builds the token source cfg selects. Client-credentials
// tokens are cached and refreshed shortly before expiry. Each token request
// is bounded by cfg.Timeout (DefaultTokenTimeout when unset); ctx should live
// as long as the process. ModeNone yields an empty token.
func NewTokenSource(ctx context.Context, cfg config.FHIRAuthConfig) oauth2.TokenSource {
	switch ModeFor(cfg) {
	case ModeClientCredentials:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTokenTimeout
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return cc.TokenSource(ctx)
	case ModeStatic:
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.StaticToken, TokenType: "Bearer"})
	default:
		return oauth2.StaticTokenSource(&oauth2.Token{})
	}
}
