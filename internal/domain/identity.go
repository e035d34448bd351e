package domain

import "time"

// Identity es la identidad emitida por el proveedor de auth en el signup.
// Vive en su propia tabla; la fila de users se crea después y puede fallar
// sin que la identidad se revierta.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
