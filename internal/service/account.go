package service

import (
	"context"
	"errors"

	"github.com/target/recipe-finder/internal/domain/model"
	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/observability/metrics"
	"github.com/target/recipe-finder/internal/ports"
)

// User-facing messages. The login message is identical for unknown users and
// wrong passwords.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgUsernameTaken      = "That username is already taken."
	MsgSignupFailed       = "We couldn't create your account. Please try again."
	MsgLoginFailed        = "We couldn't log you in. Please try again."
)

// ErrInvalidCredentials is returned by Authenticate for any credential mismatch.
var ErrInvalidCredentials = apperrors.Unauthenticated(MsgInvalidCredentials)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Users     ports.UserStore      // Required
	Hasher    ports.PasswordHasher // Required
	Telemetry Telemetry            // Optional
}

// AccountService registers users and checks their credentials.
type AccountService struct {
	users  ports.UserStore
	hasher ports.PasswordHasher
	tel    Telemetry
}

// NewAccountService constructs an AccountService.
func NewAccountService(opts AccountServiceOptions) (*AccountService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserStore is required")
	}
	if opts.Hasher == nil {
		return nil, errors.New("PasswordHasher is required")
	}
	return &AccountService{
		users:  opts.Users,
		hasher: opts.Hasher,
		tel:    opts.Telemetry.withDefaults("account_service"),
	}, nil
}

// MustNewAccountService constructs an AccountService and panics on error.
func MustNewAccountService(opts AccountServiceOptions) *AccountService {
	svc, err := NewAccountService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // startup wiring fails fast
	}
	return svc
}

// Register hashes password and stores a new user. Empty values are accepted
// as-is. A taken username yields an ErrCodeConflict AppError; anything else
// an ErrCodeInternal one.
func (s *AccountService) Register(ctx context.Context, username, password string) (model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.signupFailed(err)
		return model.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, MsgSignupFailed)
	}

	user := model.NewUser(username, hash, s.tel.Now())
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrUserExists) {
			metrics.Emit(s.tel.Metrics, metrics.SignupCount, "", metrics.Outcome{Result: metrics.ResultConflict})
			conflict := apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgUsernameTaken)
			conflict.Field = "username"
			return model.User{}, conflict
		}
		s.signupFailed(err)
		return model.User{}, apperrors.Wrap(err, storeCode(err), MsgSignupFailed)
	}

	metrics.Emit(s.tel.Metrics, metrics.SignupCount, "", metrics.Outcome{Result: metrics.ResultOK})
	s.tel.Logger.InfoContext(ctx, "user registered", "username", username)
	return user, nil
}

// Authenticate returns the user when password matches. Unknown usernames and
// wrong passwords both return ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, found, err := s.users.Get(ctx, username)
	if err != nil {
		s.loginFailed(err)
		return model.User{}, apperrors.Wrap(err, storeCode(err), MsgLoginFailed)
	}
	if !found {
		metrics.Emit(s.tel.Metrics, metrics.LoginCount, "", metrics.Outcome{Result: metrics.ResultInvalid})
		return model.User{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		s.loginFailed(err)
		return model.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, MsgLoginFailed)
	}
	if !ok {
		metrics.Emit(s.tel.Metrics, metrics.LoginCount, "", metrics.Outcome{Result: metrics.ResultInvalid})
		return model.User{}, ErrInvalidCredentials
	}

	metrics.Emit(s.tel.Metrics, metrics.LoginCount, "", metrics.Outcome{Result: metrics.ResultOK})
	return user, nil
}

// signupFailed and loginFailed only count; the HTTP layer logs the failure.
func (s *AccountService) signupFailed(err error) {
	metrics.Emit(s.tel.Metrics, metrics.SignupCount, "", metrics.Outcome{Result: metrics.ResultError, Err: err})
}

func (s *AccountService) loginFailed(err error) {
	metrics.Emit(s.tel.Metrics, metrics.LoginCount, "", metrics.Outcome{Result: metrics.ResultError, Err: err})
}

// storeCode keeps timeout and cancellation distinguishable; everything else is internal.
func storeCode(err error) apperrors.ErrorCode {
	switch code := apperrors.GetCode(apperrors.MapStoreError(err)); code {
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeCanceled:
		return code
	default:
		return apperrors.ErrCodeInternal
	}
}
