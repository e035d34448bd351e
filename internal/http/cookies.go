package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialink/internal/domain"
)

const (
	accessCookieName  = "my-access-token"
	refreshCookieName = "my-refresh-token"
)

// CookieOptions define la política de emisión de las cookies de sesión.
// httpOnly siempre va activo; secure y sameSite son configuración de
// despliegue.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// ParseSameSite traduce el valor de configuración a http.SameSite.
func ParseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteNoneMode
	}
}

// setSessionCookies escribe las DOS cookies juntas. Debe llamarse antes de
// escribir el body: una respuesta nunca lleva un access token nuevo sin su
// refresh token par.
func setSessionCookies(c *gin.Context, session domain.Session, opts CookieOptions) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     accessCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookieName,
		Value:    session.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// clearSessionCookies borra ambas cookies en el cliente.
func clearSessionCookies(c *gin.Context, opts CookieOptions) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: opts.SameSite,
		})
	}
}
