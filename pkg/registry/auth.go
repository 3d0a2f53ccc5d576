package registry

import "encoding/base64"

// AuthHeaders returns the request headers for c. A nil credential yields an
// empty map. The result is freshly allocated on every call.
func AuthHeaders(c Credential) map[string]string {
	headers := make(map[string]string, 1)

	switch c := c.(type) {
	case nil:
	case TokenAuth:
		tokenHeaders(headers, c)
	case *TokenAuth:
		if c != nil {
			tokenHeaders(headers, *c)
		}
	case BasicAuth:
		basicHeaders(headers, c)
	case *BasicAuth:
		if c != nil {
			basicHeaders(headers, *c)
		}
	}
	return headers
}

func tokenHeaders(h map[string]string, a TokenAuth) {
	if a.Header != "" {
		h[a.Header] = a.Token
		return
	}
	h["Authorization"] = "Bearer " + a.Token
}

func basicHeaders(h map[string]string, a BasicAuth) {
	h["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(a.Username+":"+a.Password))
}
