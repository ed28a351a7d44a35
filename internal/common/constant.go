// Package common contains shared constants and sentinel errors used across
// keygate components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// EncryptionKeyStorageKey is the fixed durable-storage key under which the
// hashed encryption key is kept.
const EncryptionKeyStorageKey = "encryptionKey"
