// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"job-board/internal/common/errors"
	commonhttp "job-board/internal/common/http"
)

// IdentityProvider is the subset of Keycloak the auth workers depend on.
type IdentityProvider interface {
	PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenInfo, error)
	Logout(ctx context.Context, refreshToken string) error
}

// KeycloakClient talks to a Keycloak realm's OpenID Connect endpoints.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *commonhttp.Client
}

// TokenResponse holds the response from Keycloak's token endpoint.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	RefreshToken     string `json:"refresh_token"`
	Scope            string `json:"scope"`
}

// TokenInfo holds the fields of the introspection response we use.
type TokenInfo struct {
	Active            bool   `json:"active"`
	Scope             string `json:"scope,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
	Username          string `json:"username,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	TokenType         string `json:"token_type,omitempty"`
	Exp               int64  `json:"exp,omitempty"` // seconds since epoch
	Iat               int64  `json:"iat,omitempty"`
	Sub               string `json:"sub,omitempty"` // user id
	Iss               string `json:"iss,omitempty"`
}

// ExpiresAt returns the token expiry, or the zero time when unknown.
func (t *TokenInfo) ExpiresAt() time.Time {
	if t.Exp == 0 {
		return time.Time{}
	}
	return time.Unix(t.Exp, 0).UTC()
}

type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   commonhttp.NewClient(30 * time.Second),
	}
}

func (k *KeycloakClient) endpoint(path string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/%s", k.baseURL, k.realm, path)
}

func (k *KeycloakClient) clientForm() url.Values {
	data := url.Values{}
	data.Set("client_id", k.clientID)
	if k.clientSecret != "" {
		data.Set("client_secret", k.clientSecret)
	}
	return data
}

// PasswordGrant exchanges user credentials for tokens.
func (k *KeycloakClient) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	data := k.clientForm()
	data.Set("grant_type", "password")
	data.Set("username", username)
	data.Set("password", password)
	data.Set("scope", "openid email")

	resp, err := k.httpClient.PostForm(ctx, k.endpoint("token"), data)
	if err != nil {
		return nil, errors.NewIdentityProviderError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		var oe oauthError
		_ = json.Unmarshal([]byte(commonhttp.ReadBody(resp, 4096)), &oe)
		if oe.Error == "invalid_grant" || resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.NewUnauthenticatedError("Invalid login credentials")
		}
		return nil, errors.NewIdentityProviderError(fmt.Errorf("token request rejected: %s", oe.Error))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, k.statusError("token", resp)
	}
	defer resp.Body.Close()

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, errors.NewIdentityProviderError(fmt.Errorf("failed to decode token response: %w", err))
	}

	return &tokenResp, nil
}

// ValidateToken introspects an access token. Inactive tokens are UNAUTHENTICATED.
func (k *KeycloakClient) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	data := k.clientForm()
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")

	resp, err := k.httpClient.PostForm(ctx, k.endpoint("token/introspect"), data)
	if err != nil {
		return nil, errors.NewIdentityProviderError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, k.statusError("introspection", resp)
	}
	defer resp.Body.Close()

	var tokenInfo TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, errors.NewIdentityProviderError(fmt.Errorf("failed to decode introspection response: %w", err))
	}

	if !tokenInfo.Active {
		return nil, errors.NewUnauthenticatedError("token is expired, revoked or invalid")
	}

	return &tokenInfo, nil
}

// Logout ends the Keycloak session behind a refresh token.
func (k *KeycloakClient) Logout(ctx context.Context, refreshToken string) error {
	data := k.clientForm()
	data.Set("refresh_token", refreshToken)

	resp, err := k.httpClient.PostForm(ctx, k.endpoint("logout"), data)
	if err != nil {
		return errors.NewIdentityProviderError(err)
	}

	// 204 on success, some versions answer 200
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return k.statusError("logout", resp)
	}
	resp.Body.Close()
	return nil
}

func (k *KeycloakClient) statusError(op string, resp *http.Response) error {
	body := commonhttp.ReadBody(resp, 4096)
	stdErr := errors.NewIdentityProviderError(fmt.Errorf("keycloak %s failed with status %d: %s", op, resp.StatusCode, body))
	stdErr.Retryable = commonhttp.IsTransientStatus(resp.StatusCode)
	return stdErr.WithMetadata("status", resp.StatusCode)
}
