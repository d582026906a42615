package user

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidCode   = errors.New("invalid authorization code")
	ErrEmailRequired = errors.New("google profile has no email")
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type UserService interface {
	LoginWithGoogle(ctx context.Context, code string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, dto UpdateProfileDTO) (*User, error)
	ListStudents(ctx context.Context) ([]*User, error)
}

type userService struct {
	repo        UserRepository
	oauthConfig *oauth2.Config
}

func NewService(repo UserRepository) UserService {
	return &userService{
		repo: repo,
		oauthConfig: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *userService) LoginWithGoogle(ctx context.Context, code string) (*User, error) {
	log := config.WithContext(ctx)

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Failed to exchange Google authorization code")
		return nil, ErrInvalidCode
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google profile")
		return nil, err
	}
	if profile.Email == "" {
		return nil, ErrEmailRequired
	}

	u, err := s.repo.GetByEmail(profile.Email)
	if err != nil {
		log.WithError(err).Error("Failed to look up user by email")
		return nil, err
	}

	encAccess, err := config.Encrypt(token.AccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to encrypt Google access token")
		return nil, err
	}
	encRefresh := ""
	if token.RefreshToken != "" {
		if encRefresh, err = config.Encrypt(token.RefreshToken); err != nil {
			log.WithError(err).Error("Failed to encrypt Google refresh token")
			return nil, err
		}
	}

	if u == nil {
		u = &User{
			ID:                          uuid.New(),
			Name:                        profile.Name,
			Email:                       profile.Email,
			Role:                        RoleStudent,
			AvatarURL:                   profile.Picture,
			EncryptedGoogleAccessToken:  encAccess,
			EncryptedGoogleRefreshToken: encRefresh,
			CreatedAt:                   time.Now(),
			UpdatedAt:                   time.Now(),
		}
		if err := s.repo.Create(u); err != nil {
			log.WithError(err).Error("Failed to create user on first login")
			return nil, err
		}
		log.WithField("user_id", u.ID).Info("User created on first Google login")
		return u, nil
	}

	u.Name = profile.Name
	u.AvatarURL = profile.Picture
	u.EncryptedGoogleAccessToken = encAccess
	if encRefresh != "" {
		u.EncryptedGoogleRefreshToken = encRefresh
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update user on login")
		return nil, err
	}
	return u, nil
}

func (s *userService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*User, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to get user by ID")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, dto UpdateProfileDTO) (*User, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByID(id)
	if err != nil {
		log.WithError(err).Error("Failed to get user for profile update")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.AvatarURL != nil {
		u.AvatarURL = *dto.AvatarURL
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update user profile")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User profile updated")
	return u, nil
}

func (s *userService) ListStudents(ctx context.Context) ([]*User, error) {
	log := config.WithContext(ctx)

	students, err := s.repo.ListByRole(RoleStudent)
	if err != nil {
		log.WithError(err).Error("Failed to list students")
		return nil, err
	}
	return students, nil
}
