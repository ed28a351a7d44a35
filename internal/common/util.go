package common

// WipeByteArray overwrites the contents of b with zeros. Use it on
// passphrases and derived keys once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Fingerprint returns a short, log-safe prefix of a hashed key.
func Fingerprint(hashed string) string {
	const n = 8
	if len(hashed) <= n {
		return hashed
	}
	return hashed[:n]
}
