package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CredentialVerifier is the external authority deciding whether a
// username/password pair is valid. A nil error means accepted.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) error
}

// CredentialVerifierFunc adapts a function to the CredentialVerifier interface.
type CredentialVerifierFunc func(ctx context.Context, username, password string) error

// VerifyCredentials implements CredentialVerifier.
func (f CredentialVerifierFunc) VerifyCredentials(ctx context.Context, username, password string) error {
	if f == nil {
		return Reject(DiagnosticRejected, errors.New("nil verifier"))
	}
	return f(ctx, username, password)
}

// Diagnostic is an internal reason code for a rejected verification.
// It is meant for logs and activity events, never for response bodies.
type Diagnostic string

const (
	DiagnosticNone                 Diagnostic = ""
	DiagnosticUnknownUser          Diagnostic = "unknown_user"
	DiagnosticWrongPassword        Diagnostic = "wrong_password"
	DiagnosticAuthorityUnavailable Diagnostic = "authority_unavailable"
	DiagnosticCanceled             Diagnostic = "canceled"
	DiagnosticRejected             Diagnostic = "rejected"
)

// VerificationError is returned by verifiers that want to report why
// credentials were rejected
type VerificationError struct {
	Diagnostic Diagnostic
	Err        error
}

// Reject builds a VerificationError
func Reject(diag Diagnostic, err error) error {
	return &VerificationError{Diagnostic: diag, Err: err}
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("credentials rejected: %s", e.Diagnostic)
	}
	return fmt.Sprintf("credentials rejected: %s: %s", e.Diagnostic, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// DiagnosticOf extracts the diagnostic from a verifier error
func DiagnosticOf(err error) Diagnostic {
	if err == nil {
		return DiagnosticNone
	}

	var verr *VerificationError
	if errors.As(err, &verr) && verr.Diagnostic != DiagnosticNone {
		return verr.Diagnostic
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return DiagnosticAuthorityUnavailable
	}

	if errors.Is(err, context.Canceled) {
		return DiagnosticCanceled
	}

	return DiagnosticRejected
}

type timeoutVerifier struct {
	next    CredentialVerifier
	timeout time.Duration
}

// WithTimeout bounds each call to next. A call that runs past the timeout
// is reported as an unavailable authority.
func WithTimeout(next CredentialVerifier, timeout time.Duration) CredentialVerifier {
	if timeout <= 0 {
		return next
	}
	return &timeoutVerifier{next: next, timeout: timeout}
}

func (v *timeoutVerifier) VerifyCredentials(ctx context.Context, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	err := v.next.VerifyCredentials(ctx, username, password)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Reject(DiagnosticAuthorityUnavailable, err)
	}
	return err
}
