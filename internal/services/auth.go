package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/moodly-backend/internal/data/repos"
	types "github.com/yungbote/moodly-backend/internal/domain"
	"github.com/yungbote/moodly-backend/internal/platform/apierr"
	"github.com/yungbote/moodly-backend/internal/platform/ctxutil"
	"github.com/yungbote/moodly-backend/internal/platform/dbctx"
	"github.com/yungbote/moodly-backend/internal/platform/logger"
)

const (
	minPasswordLength  = 6
	maxDisplayNameRune = 64
)

var (
	ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))
	ErrInvalidToken       = apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("invalid or expired token"))
	ErrEmailTaken         = apierr.Conflict("email_taken", errors.New("an account with this email already exists"))
)

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(in RegisterInput) (RegisterInput, error) {
	in.Email = normalizeEmail(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Email == "" {
		return in, apierr.BadRequest("email_required", errors.New("email is required"))
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return in, apierr.BadRequest("invalid_email", errors.New("email is not valid"))
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return in, apierr.BadRequest("password_too_short", fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}
	if in.Password != in.ConfirmPassword {
		return in, apierr.BadRequest("password_mismatch", errors.New("passwords do not match"))
	}
	if utf8.RuneCountInString(in.DisplayName) > maxDisplayNameRune {
		return in, apierr.BadRequest("display_name_too_long", fmt.Errorf("display name must be at most %d characters", maxDisplayNameRune))
	}
	return in, nil
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	in, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:             uuid.New(),
		Email:          in.Email,
		Password:       string(hashed),
		DisplayName:    in.DisplayName,
		PreferredTheme: types.ThemeSystem,
	}
	err = inTx(dbctx.Context{Ctx: ctx}, as.db, func(dbc dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(dbc.Ctx, dbc.Tx, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrEmailTaken
		}
		if _, err := as.userRepo.Create(dbc.Ctx, dbc.Tx, []*types.User{user}); err != nil {
			if errors.Is(err, repos.ErrConflict) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return "", "", ErrInvalidCredentials
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	access, refresh, err := as.issueTokens(dbctx.Context{Ctx: ctx}, user)
	if err != nil {
		return "", "", err
	}
	as.log.Info("User logged in", "user_id", user.ID)
	return access, refresh, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", ErrInvalidToken
	}

	var accessToken, newRefreshToken string
	err := inTx(dbctx.Context{Ctx: ctx}, as.db, func(dbc dbctx.Context) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return ErrInvalidToken
		}
		existing := found[0]
		if !existing.ExpiresAt.After(as.now()) {
			if err := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
				as.log.Warn("Failed to delete expired refresh token", "error", err)
			}
			return ErrInvalidToken
		}
		users, err := as.userRepo.GetByIDs(dbc.Ctx, dbc.Tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return ErrInvalidToken
		}
		accessToken, newRefreshToken, err = as.issueTokens(dbc, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return ErrUnauthorized
	}
	dbc := dbctx.Context{Ctx: ctx}
	if rd.SessionID != uuid.Nil {
		return as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{rd.SessionID})
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
	if err != nil {
		return fmt.Errorf("load user token: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		ids = append(ids, t.ID)
	}
	return as.userTokenRepo.SoftDeleteByIDs(dbc, ids)
}

func (as *authService) issueTokens(dbc dbctx.Context, user *types.User) (string, string, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refresh := uuid.New().String()
	userToken := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{userToken}); err != nil {
		as.log.Warn("Create User Token Error", "error", err)
		return "", "", fmt.Errorf("create user token: %w", err)
	}
	return access, refresh, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates tokenString and attaches the caller's identity.
// The token must still have a live session row; logout revokes it immediately.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, ErrInvalidToken
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, fmt.Errorf("fetch user token: %w", err)
	}
	if len(found) == 0 || found[0].UserID != userID {
		return ctx, ErrInvalidToken
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       userID,
		SessionID:    found[0].ID,
		Email:        claims.Email,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return as.userTokenRepo.FullDeleteExpired(dbctx.Context{Ctx: ctx}, as.now())
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
