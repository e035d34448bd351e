package domain

// Session es el par de tokens que viaja en las cookies del cliente.
// El servidor no persiste sesiones; solo el jti del refresh token queda
// registrado para poder rotarlo y revocarlo.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
