package auth

// Claims representa la identidad asociada a un token verificado.
type Claims struct {
	// UserID identifica a quien opera; se usa como "administeredBy" por defecto.
	UserID string
}
