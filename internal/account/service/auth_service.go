// Package service implements account registration, email verification, and
// token based authentication on top of the account repository, the Redis
// token cache, and the mailer.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"copilot-auth/internal/account/domain"
	"copilot-auth/internal/security"
	"copilot-auth/internal/telemetry"
)

// verificationCodeTTL bounds how long an emailed verification code stays
// redeemable. Registration for the same address is locked out until the code
// expires or is redeemed.
const verificationCodeTTL = 24 * time.Hour

// mailTimeout bounds a single background verification email send.
const mailTimeout = 30 * time.Second

// Cache key layouts. The verification and session keys keep a space after the
// colon; existing deployments have live entries under these exact keys.
func verificationKey(email string) string { return "email_verification: " + email }

func sessionKey(accessToken string) string { return "auth: " + accessToken }

func blacklistKey(token string) string { return "blacklist:" + token }

// AccountRepo is the account repository surface needed by the auth service.
// Lookups return nil without error when no row matches.
type AccountRepo interface {
	Create(ctx context.Context, email, passwordHash string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	SetPasswordHash(ctx context.Context, id int64, passwordHash string) (*domain.Account, error)
	SetVerified(ctx context.Context, email string) (*domain.Account, error)
}

// TokenCache is the cache surface needed by the auth service. Get reports
// missing keys via the bool, not an error.
type TokenCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// VerificationMailer sends the account verification email.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, to, link string) error
}

// AuthService implements register, login, refresh, logout, email verification,
// and authenticated account lookup.
type AuthService struct {
	repo    AccountRepo
	cache   TokenCache
	hasher  *security.Hasher
	tokens  *security.TokenCodec
	mailer  VerificationMailer
	emitter telemetry.EventEmitter
	logger  *slog.Logger
	baseURL string
}

// NewAuthService returns an AuthService with the given dependencies.
// mailer and emitter may be nil; both are best-effort side channels.
func NewAuthService(
	repo AccountRepo,
	cache TokenCache,
	hasher *security.Hasher,
	tokens *security.TokenCodec,
	mailer VerificationMailer,
	emitter telemetry.EventEmitter,
	logger *slog.Logger,
	baseURL string,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		repo:    repo,
		cache:   cache,
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		emitter: emitter,
		logger:  logger,
		baseURL: baseURL,
	}
}

// Register creates (or re-registers) an unverified account and sends a
// verification email. A verified account blocks the email entirely; an
// unverified one blocks it only while a previous verification code is still
// live, otherwise the stored password hash is replaced and a fresh code is
// issued.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("registration lookup failed", "email", email, "error", err)
		return nil, ErrRegistrationFailed.Wrap(err)
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, ErrEmailAlreadyRegistered
		}
		// Cache errors only log; a broken cache must not block registration.
		code, found, err := s.cache.Get(ctx, verificationKey(email))
		if err != nil {
			s.logger.Error("verification cache lookup failed", "email", email, "error", err)
		}
		if found && code != "" {
			return nil, ErrVerificationEmailAlreadySent
		}
	}

	if !security.IsStrong(password) {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		s.logger.Error("password hashing failed", "email", email, "error", err)
		return nil, ErrRegistrationFailed.Wrap(err)
	}

	var account *domain.Account
	if existing == nil {
		account, err = s.repo.Create(ctx, email, hash)
	} else {
		account, err = s.repo.SetPasswordHash(ctx, existing.ID, hash)
	}
	if err != nil || account == nil {
		s.logger.Error("account persistence failed", "email", email, "error", err)
		return nil, ErrRegistrationFailed.Wrap(err)
	}

	code := uuid.New().String()
	s.sendVerificationEmail(email, code)
	if err := s.cache.Set(ctx, verificationKey(email), code, verificationCodeTTL); err != nil {
		s.logger.Error("verification code store failed", "email", email, "error", err)
		return nil, ErrRegistrationFailed.Wrap(err)
	}

	telemetry.EmitAsync(s.emitter, ctx, &telemetry.Event{
		AccountID: account.ID,
		Email:     account.Email,
		EventType: telemetry.EventRegistration,
		Source:    "auth",
		CreatedAt: time.Now().UTC(),
	})
	return account, nil
}

// sendVerificationEmail fires the verification email in the background.
// Failures are logged; the registration itself already succeeded.
func (s *AuthService) sendVerificationEmail(email, code string) {
	if s.mailer == nil {
		return
	}
	query := url.Values{}
	query.Set("email", email)
	query.Set("token", code)
	link := s.baseURL + "/accounts/verify-email?" + query.Encode()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := s.mailer.SendVerificationEmail(ctx, email, link); err != nil {
			s.logger.Error("verification email send failed", "email", email, "error", err)
		}
	}()
}

// Login authenticates a verified account and returns an access/refresh token
// pair. Missing and unverified accounts fail identically to a bad email so
// the response does not leak which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (access, refresh string, err error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("login lookup failed", "email", email, "error", err)
		return "", "", ErrLoginFailed.Wrap(err)
	}
	if account == nil || !account.IsVerified {
		return "", "", ErrInvalidEmail
	}
	if err := s.hasher.Compare(account.PasswordHash, []byte(password)); err != nil {
		return "", "", ErrInvalidPassword
	}

	access, refresh, err = s.tokens.IssuePair(account.ID, account.Email)
	if err != nil {
		s.logger.Error("token issuance failed", "email", email, "error", err)
		return "", "", ErrLoginFailed.Wrap(err)
	}

	session, err := json.Marshal(map[string]any{
		"user_id": account.ID,
		"email":   account.Email,
	})
	if err != nil {
		return "", "", ErrLoginFailed.Wrap(err)
	}
	if err := s.cache.Set(ctx, sessionKey(access), string(session), s.tokens.AccessTTL()); err != nil {
		s.logger.Error("session cache write failed", "email", email, "error", err)
		return "", "", ErrLoginFailed.Wrap(err)
	}

	telemetry.EmitAsync(s.emitter, ctx, &telemetry.Event{
		AccountID: account.ID,
		Email:     account.Email,
		EventType: telemetry.EventLogin,
		Source:    "auth",
		CreatedAt: time.Now().UTC(),
	})
	return access, refresh, nil
}

// RefreshTokens rotates a refresh token: the presented token is blacklisted
// for its remaining lifetime and a new pair is issued. The new access token
// from the pair is not blacklist-tracked; access tokens expire on their own.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (access, refresh string, err error) {
	_, revoked, err := s.cache.Get(ctx, blacklistKey(refreshToken))
	if err != nil {
		s.logger.Error("blacklist lookup failed", "error", err)
	}
	if revoked {
		return "", "", ErrTokenRevoked
	}

	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}
	if claims.TokenType != security.TokenTypeRefresh {
		return "", "", ErrNotRefreshToken
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return "", "", ErrMalformedPayload
	}

	s.blacklist(ctx, refreshToken, claims)

	access, refresh, err = s.tokens.IssuePair(accountID, claims.Email)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		return "", "", ErrLoginFailed.Wrap(err)
	}

	telemetry.EmitAsync(s.emitter, ctx, &telemetry.Event{
		AccountID: accountID,
		Email:     claims.Email,
		EventType: telemetry.EventTokenRefresh,
		Source:    "auth",
		CreatedAt: time.Now().UTC(),
	})
	return access, refresh, nil
}

// Logout blacklists the presented token for its remaining lifetime. Any token
// type is accepted; revoking an access token here does not revoke the refresh
// token it was issued alongside, and vice versa.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return ErrInvalidToken
	}

	s.blacklist(ctx, token, claims)

	event := &telemetry.Event{
		Email:     claims.Email,
		EventType: telemetry.EventLogout,
		Source:    "auth",
		CreatedAt: time.Now().UTC(),
	}
	if id, err := claims.AccountID(); err == nil {
		event.AccountID = id
	}
	telemetry.EmitAsync(s.emitter, ctx, event)
	return nil
}

// blacklist stores the token under the blacklist key for its remaining
// lifetime. Already expired tokens are skipped; write failures only log.
func (s *AuthService) blacklist(ctx context.Context, token string, claims *security.Claims) {
	ttl := claims.RemainingTTL(time.Now().UTC())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, blacklistKey(token), "1", ttl); err != nil {
		s.logger.Error("blacklist write failed", "error", err)
	}
}

// VerifyEmail redeems a verification code. It reports success or failure as a
// bool; every failure path is logged but none is surfaced as an error, so the
// caller cannot distinguish a bad code from an internal fault.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) bool {
	stored, found, err := s.cache.Get(ctx, verificationKey(email))
	if err != nil {
		s.logger.Error("verification code lookup failed", "email", email, "error", err)
		return false
	}
	if !found || stored == "" || stored != code {
		s.logger.Warn("invalid or expired verification code", "email", email)
		return false
	}

	account, err := s.repo.SetVerified(ctx, email)
	if err != nil {
		s.logger.Error("verification update failed", "email", email, "error", err)
		return false
	}
	if account == nil {
		s.logger.Warn("verification for unknown account", "email", email)
		return false
	}

	if err := s.cache.Delete(ctx, verificationKey(email)); err != nil {
		s.logger.Error("verification code delete failed", "email", email, "error", err)
	}

	telemetry.EmitAsync(s.emitter, ctx, &telemetry.Event{
		AccountID: account.ID,
		Email:     account.Email,
		EventType: telemetry.EventEmailVerified,
		Source:    "auth",
		CreatedAt: time.Now().UTC(),
	})
	return true
}

// GetUserDetails resolves an access token to its account.
func (s *AuthService) GetUserDetails(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	if claims.TokenType != security.TokenTypeAccess {
		return nil, ErrNotAccessToken
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return nil, ErrMalformedPayload
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		// Untyped on purpose; the handler answers with the generic 500 envelope.
		s.logger.Error("account lookup failed", "account_id", accountID, "error", err)
		return nil, err
	}
	if account == nil {
		return nil, ErrUserNotFound
	}
	return account, nil
}
