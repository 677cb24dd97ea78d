package repository

import "errors"

// Sentinel errors the service layer translates into API errors.
var (
	ErrNotFound            = errors.New("record not found")
	ErrNotPending          = errors.New("request is not pending")
	ErrAlreadyCheckedOut   = errors.New("request already checked out")
	ErrConflictingApproval = errors.New("conflicting approved request exists")
)
