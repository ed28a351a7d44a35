// Package config loads runtime configuration for the keygate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "domain": "example.com",
//	  "data_dir": "/var/lib/keygate",
//	  "account_id": "u1",
//	  "user_name": "alice",
//	  "access_token": "eyJ...",
//	  "hash_salt": "keygate/encryption-key/v1",
//	  "reset_policy": "abort",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
