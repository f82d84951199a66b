package auth

import (
	"context"
	"time"
)

// TokenTypeBearer is the token type reported to clients
const TokenTypeBearer = "Bearer"

type Auther struct {
	verifier     CredentialVerifier
	codec        *ClaimsCodec
	lifetime     time.Duration
	logger       Logger
	activitySink ActivitySink
}

var _ LoginFlow = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(verifier CredentialVerifier, codec *ClaimsCodec, opts Config) *Auther {
	lifetime := DefaultSessionLifetime
	if opts != nil && opts.GetSessionLifetime() > 0 {
		lifetime = opts.GetSessionLifetime()
	}

	return &Auther{
		verifier:     verifier,
		codec:        codec,
		lifetime:     lifetime,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClock replaces the time source used to mint and check tokens
func (s *Auther) WithClock(now func() time.Time) *Auther {
	s.codec.WithClock(now)
	return s
}

// Now returns the current time according to the authenticator clock
func (s *Auther) Now() time.Time {
	return s.codec.Now()
}

// TokenService returns the codec used to sign tokens
func (s *Auther) TokenService() *ClaimsCodec {
	return s.codec
}

// SessionLifetime is the validity window of tokens issued by Login
func (s *Auther) SessionLifetime() time.Duration {
	return s.lifetime
}

// Login verifies creds with the credential authority and issues a token.
// Every failure is returned as an *AuthError.
func (s *Auther) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.Username == "" || creds.Password == "" {
		err := newAuthError(KindMissingCredentials, nil)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, creds.Username, err)
		return nil, err
	}

	if err := s.verifier.VerifyCredentials(ctx, creds.Username, creds.Password); err != nil {
		diag := DiagnosticOf(err)

		kind := KindWrongCredentials
		if diag == DiagnosticAuthorityUnavailable {
			kind = KindVerifierUnavailable
		}

		authErr := &AuthError{Kind: kind, Diagnostic: diag, Err: err}
		s.logger.Info("login rejected: kind=%s diagnostic=%s", kind, diag)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, creds.Username, authErr)
		return nil, authErr
	}

	claims := s.codec.Mint(creds.Username, s.lifetime)

	token, err := s.codec.Encode(claims)
	if err != nil {
		authErr := newAuthError(KindTokenCreation, err)
		s.logger.Error("login token creation failed for %q: %v", creds.Username, err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, creds.Username, authErr)
		return nil, authErr
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, creds.Username, nil)

	return &LoginResult{
		Token:     token,
		TokenType: TokenTypeBearer,
		User:      PublicUser{Username: claims.Issuer},
		ExpiresAt: claims.Expires(),
	}, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, username string, authErr *AuthError) {
	// an unverified username may be a mistyped password
	if eventType == ActivityEventLoginFailure {
		username = ""
	}

	event := ActivityEvent{
		EventType:  eventType,
		Username:   username,
		Metadata:   map[string]any{},
		OccurredAt: s.codec.Now(),
	}

	if authErr != nil {
		event.Kind = authErr.Kind
		event.Diagnostic = authErr.Diagnostic
	}

	sink := normalizeActivitySink(s.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
