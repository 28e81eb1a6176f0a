package ports

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// TokenVerifier resolves a token to the subject id it was issued for.
// Fails with domain.ErrInvalidToken or domain.ErrExpiredToken.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
