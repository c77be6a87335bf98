package service

import (
	"context"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/jwt"
	"go-societe-admin/pkg/tokenstore"
	"go-societe-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTokenInvalid = apperror.Unauthenticated("invalid or expired token")
	ErrTokenRevoked = apperror.Unauthenticated("token has been revoked")
)

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenID string) error
	Authenticate(ctx context.Context, token string) (*Principal, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	User        *model.User
	TokenID     string
	Permissions []string
}

type authService struct {
	users  repository.UserRepository
	roles  *RoleRegistry
	jwt    *jwt.Service
	tokens tokenstore.Store
	log    *logrus.Logger
}

func NewAuthService(users repository.UserRepository, roles *RoleRegistry, jwtService *jwt.Service, tokens tokenstore.Store, log *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		roles:  roles,
		jwt:    jwtService,
		tokens: tokens,
		log:    log,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if repository.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, unexpected(s.log, "find user by email", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issue(ctx, user)
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, req.Email, nil)
	if err != nil {
		return nil, unexpected(s.log, "check email", err)
	}
	if taken {
		return nil, ErrUserEmailTaken
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		RoleID:   s.roles.ID(model.RoleClient),
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, unexpected(s.log, "hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, unexpected(s.log, "register user", classifyWrite(err))
	}

	created, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, unexpected(s.log, "reload user", err)
	}
	return s.issue(ctx, created)
}

func (s *authService) issue(ctx context.Context, user *model.User) (*AuthResponse, error) {
	token, tokenID, err := s.jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.RoleName()))
	if err != nil {
		return nil, unexpected(s.log, "generate token", err)
	}
	if err := s.tokens.Register(ctx, user.ID, tokenID, s.jwt.Expiry()); err != nil {
		return nil, unexpected(s.log, "register token", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := s.tokens.Revoke(ctx, userID, tokenID); err != nil {
		return unexpected(s.log, "revoke token", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its still-active user. Permissions
// come from the user's current role, not from the token.
func (s *authService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperror.Wrap(ErrTokenInvalid, err)
	}

	ok, err := s.tokens.Exists(ctx, claims.UserID, claims.TokenID())
	if err != nil {
		return nil, unexpected(s.log, "lookup token", err)
	}
	if !ok {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if repository.IsNotFound(err) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, unexpected(s.log, "find token user", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	var perms []string
	if user.Role != nil {
		perms = user.Role.PermissionNames()
	}
	return &Principal{User: user, TokenID: claims.TokenID(), Permissions: perms}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, unexpected(s.log, "find current user", err)
	}
	return user, nil
}
