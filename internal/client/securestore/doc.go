// Package securestore keeps each account's end-to-end encryption material in
// its own SQLite database file, encrypted with the current hashed key.
//
// The store is what a key reset wipes locally: DeleteAccountStore closes the
// account's database and removes its files. When the shared key state is
// cleared, every open store is closed, since its contents can no longer be
// decrypted.
package securestore
