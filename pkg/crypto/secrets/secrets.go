package secrets

// Secret holds key material derived from a password. Destroy zeroes it
// once the filter that needed it is done.
type Secret struct {
	data []byte
}

// WrapSecret takes ownership of data. The caller must not keep its own
// reference, or Destroy cannot clear every copy.
func WrapSecret(data []byte) *Secret {
	return &Secret{data: data}
}

// Bytes returns the key material, or nil after Destroy.
func (s *Secret) Bytes() []byte {
	return s.data
}

// Destroy overwrites the secret with zeros. It is idempotent.
func (s *Secret) Destroy() {
	if s.data == nil {
		return
	}
	clear(s.data)
	s.data = nil
}
