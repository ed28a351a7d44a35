// Package keymanager drives the encryption-key lifecycle of a signed-in
// session: submitting a passphrase, resetting key data on the server and on
// disk, and skipping the prompt.
//
// A Manager is the only writer of the shared keystate.State. Submit and
// Reset are serialized by a single-flight guard; an overlapping call fails
// fast with ErrBusy instead of queueing.
package keymanager
