package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// TokenEnvVar holds a pre-issued bearer token
const TokenEnvVar = "AZA_TOKEN"

// DefaultTokenScope is the scope requested from Azure identity
const DefaultTokenScope = "https://ai.azure.com/.default"

// TokenSource supplies bearer tokens for upstream calls
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically from AZA_TOKEN
type StaticToken string

// Token returns the fixed value
func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", NewUsageError("%s is empty", TokenEnvVar)
	}
	return strings.TrimSpace(string(t)), nil
}

// AzureToken acquires tokens through the Azure identity chain
// (environment, managed identity, Azure CLI, ...). The credential is built
// on first use.
type AzureToken struct {
	Scope string

	newCredential func() (azcore.TokenCredential, error)

	once    sync.Once
	cred    azcore.TokenCredential
	credErr error
}

// NewAzureToken creates a token source for scope
func NewAzureToken(scope string) *AzureToken {
	if scope == "" {
		scope = DefaultTokenScope
	}
	return &AzureToken{Scope: scope, newCredential: defaultCredential}
}

func defaultCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}

// Token requests an access token for Scope
func (a *AzureToken) Token(ctx context.Context) (string, error) {
	a.once.Do(func() {
		build := a.newCredential
		if build == nil {
			build = defaultCredential
		}
		a.cred, a.credErr = build()
	})
	if a.credErr != nil {
		return "", NewUsageError("no Azure credential available (%v): set %s or run az login", a.credErr, TokenEnvVar)
	}

	tok, err := a.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{a.Scope}})
	if err != nil {
		var authErr *azidentity.AuthenticationFailedError
		if errors.As(err, &authErr) {
			return "", fmt.Errorf("azure authentication failed: %w", err)
		}
		return "", fmt.Errorf("acquire token for %s: %w", a.Scope, err)
	}
	if strings.TrimSpace(tok.Token) == "" {
		return "", errors.New("azure identity returned an empty token")
	}
	return tok.Token, nil
}

// DefaultTokenSource prefers AZA_TOKEN and falls back to Azure identity
func DefaultTokenSource() TokenSource {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return StaticToken(token)
	}
	return NewAzureToken(DefaultTokenScope)
}
