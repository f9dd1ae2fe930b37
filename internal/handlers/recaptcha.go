package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/dpapathanasiou/go-recaptcha"
)

// CaptchaVerifier confirms a client-side captcha token.
type CaptchaVerifier interface {
	Verify(remoteAddr, token string) (bool, error)
}

type recaptchaVerifier struct{}

// NewRecaptchaVerifier returns a verifier backed by Google reCAPTCHA.
func NewRecaptchaVerifier(secret string) CaptchaVerifier {
	recaptcha.Init(secret)
	return recaptchaVerifier{}
}

func (recaptchaVerifier) Verify(remoteAddr, token string) (bool, error) {
	return recaptcha.Confirm(remoteAddr, token)
}

// clientIP resolves the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			v = v[:idx]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-Ip")); v != "" {
		return v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
