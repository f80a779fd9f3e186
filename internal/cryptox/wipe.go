package cryptox

// Wipe overwrites b with zeros. It is used on secrets read from the
// terminal once they are no longer needed. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
