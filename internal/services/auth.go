package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

// CredentialStore is the slice of the user repository auth needs.
type CredentialStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetPassword(ctx context.Context, id bson.ObjectID, hash string) error
	SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expire time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
}

type AuthService struct {
	users       CredentialStore
	mailer      Mailer
	secret      []byte
	ttl         time.Duration
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
}

type AuthConfig struct {
	Secret      string
	TTL         time.Duration
	FrontendURL string
}

func NewAuthService(users CredentialStore, mailer Mailer, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:       users,
		mailer:      mailer,
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TTL,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		log:         log,
		now:         time.Now,
	}
}

// IssueToken signs an HS256 token carrying the user id as uid and sub.
func (s *AuthService) IssueToken(uid bson.ObjectID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"uid": uid.Hex(),
		"sub": uid.Hex(),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return t, nil
}

func authUser(u *models.User) dto.AuthUser {
	return dto.AuthUser{ID: u.ID, Username: u.Username, Email: u.Email, ProfilePicture: u.ProfilePicture}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterReq) (dto.AuthResp, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return dto.AuthResp{}, apperr.Invalid("email", "email already in use")
	} else if !apperr.IsNotFound(err) {
		return dto.AuthResp{}, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return dto.AuthResp{}, apperr.Invalid("username", "username already in use")
	} else if !apperr.IsNotFound(err) {
		return dto.AuthResp{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResp{}, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return dto.AuthResp{}, err
	}

	token, err := s.IssueToken(u.ID)
	if err != nil {
		return dto.AuthResp{}, err
	}
	return dto.AuthResp{Message: "User registered successfully", Token: token, User: authUser(u)}, nil
}

var errBadCredentials = apperr.Invalid("credentials", "invalid credentials")

func (s *AuthService) Login(ctx context.Context, req dto.LoginReq) (dto.AuthResp, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if apperr.IsNotFound(err) {
		return dto.AuthResp{}, errBadCredentials
	}
	if err != nil {
		return dto.AuthResp{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return dto.AuthResp{}, errBadCredentials
	}

	token, err := s.IssueToken(u.ID)
	if err != nil {
		return dto.AuthResp{}, err
	}
	return dto.AuthResp{Message: "Login successful", Token: token, User: authUser(u)}, nil
}

// Summary is the token holder as reported by the validate endpoints.
func (s *AuthService) Summary(ctx context.Context, uid bson.ObjectID) (dto.AuthUser, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return dto.AuthUser{}, err
	}
	return authUser(u), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword stores the hash of a fresh reset token and mails the
// plaintext token to the user as a link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	if err := s.users.SetResetToken(ctx, u.ID, hashResetToken(token), s.now().Add(resetTokenTTL).UTC()); err != nil {
		return err
	}

	link := s.frontendURL + "/reset-password/" + token
	body := `<p>You requested a password reset.</p>` +
		`<p>Click <a href="` + link + `">here</a> to reset your password.</p>` +
		`<p>This link is valid for 15 minutes.</p>`
	if err := s.mailer.Send(ctx, u.Email, "Password Reset Request", body); err != nil {
		return apperr.Storage("send reset link", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.users.FindByResetToken(ctx, hashResetToken(token), s.now().UTC())
	if apperr.IsNotFound(err) {
		return apperr.Invalid("token", "invalid or expired token")
	}
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPassword(ctx, u.ID, string(hash))
}

func (s *AuthService) UpdatePassword(ctx context.Context, uid bson.ObjectID, current, next string) error {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return apperr.Invalid("currentPassword", "current password is wrong")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.SetPassword(ctx, uid, string(hash))
}
