package httpclient

import "net/http"

// AuthConfig configures request authentication.
type AuthConfig struct {
	// BearerToken is sent as an Authorization: Bearer header when set.
	BearerToken string
	// APIKeyParam and APIKeyValue add a query-string API key when both set.
	APIKeyParam string
	APIKeyValue string
}

// apply adds the configured credentials to the request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	if a.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.BearerToken)
	}
	if a.APIKeyParam != "" && a.APIKeyValue != "" {
		q := req.URL.Query()
		q.Set(a.APIKeyParam, a.APIKeyValue)
		req.URL.RawQuery = q.Encode()
	}
}
