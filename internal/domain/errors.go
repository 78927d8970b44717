package domain

import (
	"errors"
	"fmt"
)

// ErrKind buckets errors by how the HTTP boundary should report them.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error carries a stable machine code plus a client-safe message.
// Code is part of the API contract; Cause is internal-only and never
// serialized to clients.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	e := New(kind, code, msg)
	e.Cause = cause
	return e
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is (or wraps) a domain error with the code.
func Is(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	e := New(KindValidation, "missing_field", "missing required field")
	return WithMeta(e, map[string]string{"field": field})
}

func ErrInvalidField(field, reason string) *Error {
	e := New(KindValidation, "invalid_field", "invalid field")
	return WithMeta(e, map[string]string{"field": field, "reason": reason})
}

// EnableMFA called before SetupMFA ever stored a secret.
func ErrMFASetupRequired() *Error {
	return New(KindValidation, "mfa_setup_required", "run MFA setup first")
}

// A staged login token references a user without MFA turned on.
func ErrMFANotEnabled() *Error {
	return New(KindValidation, "mfa_not_enabled", "MFA not enabled")
}

// ----------------------
// Auth errors (401)
// ----------------------

// All login failures share this code: an unknown email and a wrong
// password must be indistinguishable to the caller.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

// ErrTokenInvalid covers forged, malformed, wrong-stage AND expired tokens.
// Callers must not learn which.
func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrInvalidMFACode() *Error {
	return New(KindAuth, "invalid_mfa_code", "invalid MFA code")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already exists")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrTOTPFailed(cause error) *Error {
	return Wrap(KindInternal, "totp_failed", "TOTP secret generation failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
