// Package v1 provides the banking-demo business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent the failure taxonomy
// of the API. These errors should be wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods.
//
// Example Usage:
//
//	if row == nil {
//	    return nil, fmt.Errorf("authenticate: %w", ErrInvalidCredentials)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for the API failure taxonomy.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// A single value keeps the two cases indistinguishable to callers,
	// which prevents account enumeration.
	// HTTP Status: 400 Bad Request
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailExists indicates the signup email is already registered.
	// HTTP Status: 400 Bad Request
	ErrEmailExists = errors.New("email already exists")
)
