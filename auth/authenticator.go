package auth

import (
	"context"
	"errors"

	apperrors "github.com/vida-academica/backend/errors"
	"github.com/vida-academica/backend/auth/ledger"
	"github.com/vida-academica/backend/auth/password"
	"github.com/vida-academica/backend/auth/token"
	"github.com/vida-academica/backend/logger"
	"github.com/vida-academica/backend/observability"
)

// TokenPair is the credential pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Authenticator orchestrates login, refresh rotation and logout.
type Authenticator struct {
	store   CredentialStore
	hasher  password.Hasher
	codec   *token.Codec
	ledger  ledger.Ledger
	log     *logger.Logger
	metrics *observability.AuthMetrics

	// revokeChainOnReplay controls whether a redemption of an already-rotated
	// token revokes every active record of the subject. Off by default; the
	// replay is always logged and counted either way.
	revokeChainOnReplay bool
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithReplayRevocation enables revoking the whole chain when a replayed
// refresh token is detected.
func WithReplayRevocation() AuthenticatorOption {
	return func(a *Authenticator) { a.revokeChainOnReplay = true }
}

// WithAuthMetrics attaches anomaly counters.
func WithAuthMetrics(m *observability.AuthMetrics) AuthenticatorOption {
	return func(a *Authenticator) { a.metrics = m }
}

// NewAuthenticator wires the auth core.
func NewAuthenticator(store CredentialStore, hasher password.Hasher, codec *token.Codec, lg ledger.Ledger, log *logger.Logger, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		store:  store,
		hasher: hasher,
		codec:  codec,
		ledger: lg,
		log:    log.WithComponent("authenticator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login verifies credentials and issues an access+refresh pair. Unknown
// identifier and wrong password return the identical error, and the unknown
// path still performs a full hash verification so the two are not
// timing-distinguishable.
func (a *Authenticator) Login(ctx context.Context, identifier, plaintext string) (*TokenPair, error) {
	ident, err := a.store.FindByLogin(ctx, identifier)
	if errors.Is(err, ErrIdentityNotFound) {
		if dv, ok := a.hasher.(password.DummyVerifier); ok {
			dv.VerifyDummy(plaintext)
		}
		a.metrics.LoginFailure(ctx)
		return nil, apperrors.InvalidCredentials()
	}
	if err != nil {
		return nil, apperrors.Database("find_by_login", err)
	}

	if err := a.hasher.Verify(plaintext, ident.PasswordHash); err != nil {
		a.metrics.LoginFailure(ctx)
		return nil, apperrors.InvalidCredentials()
	}

	pair, err := a.issuePair(ctx, ident.RA)
	if err != nil {
		return nil, err
	}
	a.log.Info("login", logger.Fields(logger.FieldRA, ident.RA))
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the presented
// token. Every codec and ledger failure collapses to INVALID_REFRESH
// client-side; the internal reason is logged and counted.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.codec.Decode(refreshToken, token.KindRefresh)
	if err != nil {
		a.rejectRefresh(ctx, "decode: "+err.Error())
		return nil, apperrors.InvalidRefresh()
	}

	rec, err := a.ledger.Redeem(ctx, claims.ID)
	if err != nil {
		return nil, a.refreshLedgerError(ctx, claims.RA(), claims.ID, err)
	}

	succ, err := a.ledger.Rotate(ctx, rec.TokenID, rec.RA)
	if err != nil {
		// Lost a rotation race after a clean redeem.
		return nil, a.refreshLedgerError(ctx, rec.RA, rec.TokenID, err)
	}

	access, err := a.codec.EncodeAccess(rec.RA)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := a.codec.EncodeRefresh(succ.RA, succ.TokenID, succ.ExpiresAt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	a.log.Info("refresh rotated", logger.Fields(
		logger.FieldRA, rec.RA,
		logger.FieldTokenID, rec.TokenID,
		"successor_id", succ.TokenID,
	))
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Logout revokes the presented refresh token. Revoking an already rotated,
// revoked or unknown token is a no-op success; only tokens that fail
// signature verification error.
func (a *Authenticator) Logout(ctx context.Context, refreshToken string) error {
	claims, err := a.codec.Decode(refreshToken, token.KindRefresh)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			// Expired but authentic: nothing left to revoke.
			return nil
		}
		return apperrors.InvalidRefresh()
	}

	err = a.ledger.Revoke(ctx, claims.ID)
	if err != nil && !errors.Is(err, ledger.ErrUnknown) {
		return apperrors.Database("revoke", err)
	}
	a.log.Info("logout", logger.Fields(logger.FieldRA, claims.RA(), logger.FieldTokenID, claims.ID))
	return nil
}

// LogoutAll revokes every active refresh token held by the subject. Used when
// the account itself goes away.
func (a *Authenticator) LogoutAll(ctx context.Context, ra string) error {
	if err := a.ledger.RevokeAll(ctx, ra); err != nil {
		return apperrors.Database("revoke_all", err)
	}
	a.log.Info("logout all sessions", logger.Fields(logger.FieldRA, ra))
	return nil
}

func (a *Authenticator) issuePair(ctx context.Context, ra string) (*TokenPair, error) {
	rec, err := a.ledger.Issue(ctx, ra)
	if err != nil {
		return nil, apperrors.Database("issue", err)
	}
	access, err := a.codec.EncodeAccess(ra)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := a.codec.EncodeRefresh(ra, rec.TokenID, rec.ExpiresAt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// refreshLedgerError maps a ledger failure to the collapsed client error,
// logging the real reason and running the replay policy when the token id was
// already rotated.
func (a *Authenticator) refreshLedgerError(ctx context.Context, ra, tokenID string, err error) error {
	switch {
	case errors.Is(err, ledger.ErrAlreadyRotated):
		a.metrics.ReplayDetected(ctx, ra)
		a.log.Warn("refresh replay detected", logger.Fields(
			logger.FieldRA, ra,
			logger.FieldTokenID, tokenID,
		))
		if a.revokeChainOnReplay {
			if rerr := a.ledger.RevokeAll(ctx, ra); rerr != nil {
				a.log.Error("revoke-all after replay failed", logger.ErrorFields("revoke_all", rerr))
			} else {
				a.log.Warn("chain revoked after replay", logger.Fields(logger.FieldRA, ra))
			}
		}
		a.rejectRefresh(ctx, "already_rotated")
	case errors.Is(err, ledger.ErrUnknown),
		errors.Is(err, ledger.ErrRevoked),
		errors.Is(err, ledger.ErrExpired):
		a.rejectRefresh(ctx, err.Error())
	default:
		return apperrors.Database("redeem", err)
	}
	return apperrors.InvalidRefresh()
}

func (a *Authenticator) rejectRefresh(ctx context.Context, reason string) {
	a.metrics.RefreshRejected(ctx, reason)
	a.log.Warn("refresh rejected", logger.Fields("reason", reason))
}
