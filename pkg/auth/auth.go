package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bufbuild/connect-go"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/repository"
)

type AccountKey struct{}

type Manager struct {
	conf     configs.Auth
	accounts repository.AccountRepository
	logger   *zap.Logger
}

func NewAuthManager(conf configs.Auth, accounts repository.AccountRepository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, accounts: accounts, logger: logger}
}

// Register stores a new account. Several accounts may share a name and first name.
func (a *Manager) Register(ctx context.Context, name string, firstName string, secret string) (*model.Account, error) {
	name, firstName = strings.TrimSpace(name), strings.TrimSpace(firstName)

	if name == "" || firstName == "" || secret == "" {
		return nil, fmt.Errorf("%w: name, first name and secret are required", model.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing secret: %w", model.ErrValidation, err)
	}

	account, err := a.accounts.AddAccount(ctx, name, firstName, string(hash))
	if err != nil {
		a.logger.Error("error registering account", zap.Error(err))

		return nil, err
	}

	a.logger.Info("registered account", zap.Uint("account_id", account.ID))

	return account, nil
}

// Login checks the secret against every account with that identity and returns a signed
// session token for the first match.
func (a *Manager) Login(ctx context.Context, name string, firstName string, secret string) (string, *model.Account, error) {
	candidates, err := a.accounts.FindAccountsByIdentity(ctx, strings.TrimSpace(name), strings.TrimSpace(firstName))
	if err != nil {
		return "", nil, err
	}

	for _, candidate := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidate.SecretHash), []byte(secret)) != nil {
			continue
		}

		token, err := a.IssueToken(candidate.ID)
		if err != nil {
			return "", nil, err
		}

		a.logger.Info("account logged in", zap.Uint("account_id", candidate.ID))

		return token, candidate, nil
	}

	a.logger.Warn("failed login", zap.String("name", name), zap.Int("candidates", len(candidates)))

	return "", nil, fmt.Errorf("%w: invalid credentials", model.ErrAuthenticationFailed)
}

func (a *Manager) IssueToken(accountID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(accountID), 10),
		Issuer:    a.conf.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.conf.TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.conf.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Authenticate resolves a session token to its account.
func (a *Manager) Authenticate(ctx context.Context, accessToken string) (*model.Account, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(a.conf.SecretKey), nil
	}

	claims := jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(accessToken, &claims, keyFunc)
	if err != nil || !token.Valid {
		a.logger.Error("error parsing token", zap.Error(err))

		return nil, fmt.Errorf("%w: invalid token", model.ErrAuthenticationFailed)
	}

	if !claims.VerifyIssuer(a.conf.Issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", model.ErrAuthenticationFailed, claims.Issuer)
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", model.ErrAuthenticationFailed)
	}

	account, err := a.accounts.GetAccountByID(ctx, uint(accountID))
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown account", model.ErrAuthenticationFailed)
	}

	if err != nil {
		return nil, err
	}

	return account, nil
}

// GrpcAuthInterceptor attaches the account of a bearer token to the request context. Requests
// without an Authorization header pass through anonymously; handlers that mutate a cellar
// reject them.
func (a *Manager) GrpcAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			accessToken, err := a.extractTokenFromHeader(req.Header())
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if accessToken == nil {
				return next(ctx, req)
			}

			account, err := a.Authenticate(ctx, *accessToken)
			if errors.Is(err, model.ErrAuthenticationFailed) {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			if err != nil {
				a.logger.Error("error authenticating account", zap.Error(err))

				return nil, connect.NewError(connect.CodeInternal, errors.New("error authenticating account"))
			}

			return next(WithAccount(ctx, account), req)
		}
	}
}

func (a *Manager) extractTokenFromHeader(header http.Header) (*string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		return nil, nil //nolint:nilnil // anonymous request
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return nil, fmt.Errorf("%w: authorization format must be Bearer {token}", model.ErrAuthenticationFailed)
	}

	return &token, nil
}

func WithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, AccountKey{}, account)
}

func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	account, ok := ctx.Value(AccountKey{}).(*model.Account)

	return account, ok && account != nil
}
