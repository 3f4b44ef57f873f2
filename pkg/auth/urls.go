package auth

import (
	"net/url"
	"strings"
)

// buildActionURL assembles an absolute emailed-link URL carrying the token as
// a query parameter.
func buildActionURL(baseURL, path, tok string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(path)
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// appendErrorCode adds error=<code> to a redirect path, respecting any query
// string already present.
func appendErrorCode(path, code string) string {
	return appendQueryParam(path, "error", code)
}

// appendQueryParam adds a key=value pair to a redirect path.
func appendQueryParam(path, key, value string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}
