package domain

// Tokens is the JWT credential pair issued by /accounts/auth/jwt/create/.
// The refresh endpoint may rotate only the access token, in which case the
// existing refresh token stays valid and is kept.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether the pair can authenticate a request at all.
func (t Tokens) Valid() bool {
	return t.Access != ""
}
