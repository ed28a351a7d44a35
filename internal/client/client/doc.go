// Package client contains the client-side plumbing around the keygate
// backend and local persistence.
//
// # Overview
//
//  1. Client, a transport-agnostic contract for the remote key service:
//     ResetKeyData and Ping.
//  2. GRPCClient, the gRPC implementation. It attaches the session access
//     token to every call and maps gRPC status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the client's SQLite
//     metadata database and apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable, ErrUnauthorized or
// ErrInvalidRequest; match them with errors.Is. Other failures are wrapped
// with an "rpc error:" prefix.
package client
