package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/OussemaBenslimene/Tasker/internal/apperror"
	"github.com/OussemaBenslimene/Tasker/internal/auth"
	"github.com/OussemaBenslimene/Tasker/internal/client"
	"github.com/OussemaBenslimene/Tasker/internal/model"
	"github.com/OussemaBenslimene/Tasker/internal/repository"
)

// LoginResult carries the token pair issued on login alongside the user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

// UserPatch carries the optional fields of a generic profile update.
type UserPatch struct {
	DisplayName     *string
	CurrentPassword *string
	NewPassword     *string
}

type UserService struct {
	userRepo      repository.UserRepositoryInterface
	tokens        *auth.TokenManager
	mail          client.MailClient
	uploader      client.Uploader
	websiteDomain string
	logger        *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepositoryInterface,
	tokens *auth.TokenManager,
	mail client.MailClient,
	uploader client.Uploader,
	websiteDomain string,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		tokens:        tokens,
		mail:          mail,
		uploader:      uploader,
		websiteDomain: websiteDomain,
		logger:        logger,
	}
}

// Register creates an inactive account and sends the verification email.
// Username and display name start as the email's local part.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("Email already exists!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nameFromEmail := strings.SplitN(email, "@", 2)[0]
	verifyToken := uuid.NewString()

	user := &model.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: string(hash),
		Username:       nameFromEmail,
		DisplayName:    nameFromEmail,
		IsActive:       false,
		VerifyToken:    &verifyToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) sendVerificationEmail(ctx context.Context, user *model.User) error {
	verificationLink := fmt.Sprintf("%s/account/verification?email=%s&token=%s",
		s.websiteDomain, user.Email, *user.VerifyToken)

	subject := "[Verify email] Complete your Tasker account setup"
	htmlContent := fmt.Sprintf(`
  <div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd;">
    <h3 style="color: #333;">Hi %s,</h3>
    <p style="font-size: 16px; line-height: 1.5;">
      Thanks for signing up for Tasker. To complete your account setup, please verify your email address by clicking the link below:
    </p>
    <div style="text-align: center; margin: 20px 0;">
      <a href="%s" target="_blank" style="display: inline-block; padding: 12px 20px; color: #fff; background-color: #007bff; text-decoration: none; border-radius: 5px; font-size: 16px;">
        Verify my email address
      </a>
    </div>
    <p style="font-size: 14px; color: #555;">—The Tasker Team</p>
  </div>
`, user.Username, verificationLink)

	return s.mail.SendEmail(ctx, user.Email, subject, htmlContent)
}

// VerifyAccount activates an account via the emailed one-shot token.
func (s *UserService) VerifyAccount(ctx context.Context, email, token string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("Account not found!")
	}
	if user.IsActive {
		return nil, apperror.NewNotAcceptable("Account is already verified!")
	}
	if user.VerifyToken == nil || *user.VerifyToken != token {
		return nil, apperror.NewBadRequest("Invalid token!")
	}

	user.IsActive = true
	user.VerifyToken = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates the user and issues the access/refresh token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("Account not found!")
	}
	if !user.IsActive {
		return nil, apperror.NewNotAcceptable("Account is not verified!")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, apperror.NewUnauthorized("Your Email or Password is incorrect!")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", apperror.NewUnauthorized("Please Sign In! (Error from refresh Token)")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apperror.NewUnauthorized("Please Sign In! (Error from refresh Token)")
	}

	return s.tokens.GenerateAccessToken(userID, claims.Email)
}

// Update applies a profile update. Exactly one branch runs: password change,
// avatar upload, or display-name patch.
func (s *UserService) Update(ctx context.Context, actor Actor, patch UserPatch, avatar *CoverUpdate) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("Account not found!")
	}
	if !user.IsActive {
		return nil, apperror.NewNotAcceptable("Your account is not active!")
	}

	switch {
	case patch.CurrentPassword != nil && patch.NewPassword != nil:
		if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(*patch.CurrentPassword)) != nil {
			return nil, apperror.NewNotAcceptable("Your Current Password is incorrect!")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hash)

	case avatar != nil:
		url, err := s.uploader.Upload(ctx, "users", avatar.FileName, avatar.Data)
		if err != nil {
			return nil, err
		}
		user.Avatar = url

	default:
		if patch.DisplayName != nil {
			user.DisplayName = *patch.DisplayName
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
