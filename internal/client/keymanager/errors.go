package keymanager

import "errors"

var (
	ErrEmptyInput        = errors.New("encryption key is empty")
	ErrNoActiveAccount   = errors.New("no active account")
	ErrRemoteFailure     = errors.New("remote key reset failed")
	ErrLocalStoreFailure = errors.New("local secure store reset failed")
	ErrBusy              = errors.New("another key operation is in progress")
	ErrCompleted         = errors.New("key prompt already completed")
	ErrInvalidStoredKey  = errors.New("stored encryption key is invalid")
)
