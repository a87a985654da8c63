package domain

// Hasher is the port for fingerprinting question text so literal repeats
// can be detected across a session.
type Hasher interface {
	Hash(data []byte) string
}
