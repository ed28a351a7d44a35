// Package cli provides the interactive keygate command-line client.
//
// It wires configuration, the local metadata database, the shared key
// state, the per-account secure stores and the key-data gRPC client into a
// keymanager.Manager, then runs a small REPL on top of it:
//
//   - set            enter the encryption passphrase
//   - reset          drop key data on the server and on this device
//   - skip           continue without a key
//   - status         show key, account and server state
//   - put / get      store and read an encrypted note
//
// A background watcher pings the server and switches the prompt between
// online and offline. App.Run blocks until the user exits.
package cli
