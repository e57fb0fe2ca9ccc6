package garmin

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

// Credentials are copied from a logged-in browser session; logging in is
// not automated.
type Credentials struct {
	Token   string // Authorization header value, with or without "Bearer "
	Cookies string // "name=value; name2=value2"
}

// LoadCredentials reads the token and cookies files.
func LoadCredentials(tokenFile, cookiesFile string) (Credentials, error) {
	if tokenFile == "" || cookiesFile == "" {
		return Credentials{}, errors.New("token and cookies files required")
	}
	tok, err := os.ReadFile(tokenFile)
	if err != nil {
		return Credentials{}, fmt.Errorf("read token: %w", err)
	}
	cookies, err := os.ReadFile(cookiesFile)
	if err != nil {
		return Credentials{}, fmt.Errorf("read cookies: %w", err)
	}
	return Credentials{Token: string(tok), Cookies: string(cookies)}, nil
}

func (c Credentials) token() (*oauth2.Token, error) {
	raw := strings.TrimSpace(c.Token)
	if raw == "" {
		return nil, errors.New("token required")
	}
	tok := &oauth2.Token{TokenType: "Bearer", AccessToken: raw}
	if typ, value, ok := strings.Cut(raw, " "); ok {
		tok.TokenType, tok.AccessToken = typ, strings.TrimSpace(value)
	}
	return tok, nil
}

func (c Credentials) jar(base *url.URL) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(c.Cookies)
	if raw == "" {
		return jar, nil
	}
	cookies, err := http.ParseCookie(raw)
	if err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}
	jar.SetCookies(base, cookies)
	return jar, nil
}
