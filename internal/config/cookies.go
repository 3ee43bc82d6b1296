package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrNoToken = errors.New("no session token")

// Cookies carries the session token split in two: header and payload in a
// cookie scripts can read, the signature in an HttpOnly one.
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func NewCookies(j *JWT) *Cookies {
	cookies := &Cookies{
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		jwt:      j,
	}

	if domain, ok := os.LookupEnv("COOKIES_DOMAIN"); ok {
		cookies.Domain = domain
	}

	if secureStr, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		cookies.Secure = secureStr != "0"
	}

	if sameSiteStr, ok := os.LookupEnv("COOKIES_SAMESITE"); ok {
		switch strings.ToUpper(sameSiteStr) {
		case "DEFAULT":
			cookies.SameSite = http.SameSiteDefaultMode
		case "LAX":
			cookies.SameSite = http.SameSiteLaxMode
		case "NONE":
			cookies.SameSite = http.SameSiteNoneMode
		}
	}

	return cookies
}

func (c *Cookies) JWT() *JWT {
	return c.jwt
}

func (c *Cookies) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	auth := c.cookie("auth", "delete")
	auth.MaxAge = -1
	http.SetCookie(w, auth)

	sign := c.cookie("sign", "delete")
	sign.MaxAge = -1
	sign.HttpOnly = true
	http.SetCookie(w, sign)
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	expires := time.Now().Add(c.jwt.tokenLifetime)

	auth := c.cookie("auth", header+"."+payload)
	auth.Expires = expires
	http.SetCookie(w, auth)

	sign := c.cookie("sign", signature)
	sign.Expires = expires
	sign.HttpOnly = true
	http.SetCookie(w, sign)
	return nil
}

// ParseSessionClaims reads the token from the Authorization header and falls
// back to the cookie pair.
func (c *Cookies) ParseSessionClaims(r *http.Request) (*SessionClaims, error) {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return c.jwt.ParseSessionClaims(strings.TrimSpace(token))
	}

	authCookie, err := r.Cookie("auth")
	if err != nil {
		return nil, ErrNoToken
	}
	signCookie, err := r.Cookie("sign")
	if err != nil {
		return nil, ErrNoToken
	}
	return c.jwt.ParseSessionClaims(authCookie.Value + "." + signCookie.Value)
}
