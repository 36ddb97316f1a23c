package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type authPatientRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Patient, error)
	FindByID(ctx context.Context, id int64) (*models.Patient, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, patient *models.Patient) error
}

type authCaregiverRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Caregiver, error)
	FindByID(ctx context.Context, id int64) (*models.Caregiver, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, caregiver *models.Caregiver) error
}

type authTherapistRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Therapist, error)
	FindByID(ctx context.Context, id int64) (*models.Therapist, error)
	ExistsByUnique(ctx context.Context, column, value string, excludeID int64) (bool, error)
	Create(ctx context.Context, therapist *models.Therapist) error
}

type refreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByAccount(ctx context.Context, accountID int64, role models.Role) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

// RegisterPatientRequest holds the registration payload for a patient.
// Therapist and caregiver are weak references by email resolved to ids
// exactly once, here.
type RegisterPatientRequest struct {
	Name           string `json:"nome" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"senha" validate:"required,min=6"`
	CPF            string `json:"cpf"`
	Phone          string `json:"telefone"`
	Sex            string `json:"sexo"`
	BirthDate      string `json:"data_nascimento" validate:"required"`
	TherapistEmail string `json:"email_terapeuta"`
	CaregiverEmail string `json:"email_cuidador"`
}

// RegisterTherapistRequest holds the registration payload for a therapist.
type RegisterTherapistRequest struct {
	Name      string `json:"nome" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"senha" validate:"required,min=6"`
	CPF       string `json:"cpf" validate:"required"`
	CRP       string `json:"crp" validate:"required"`
	Phone     string `json:"telefone"`
	Sex       string `json:"sexo"`
	BirthDate string `json:"data_nascimento" validate:"required"`
}

// RegisterCaregiverRequest holds the registration payload for a caregiver.
type RegisterCaregiverRequest struct {
	Name      string `json:"nome" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"senha" validate:"required,min=6"`
	CPF       string `json:"cpf"`
	Phone     string `json:"telefone"`
	Sex       string `json:"sexo"`
	BirthDate string `json:"data_nascimento" validate:"required"`
}

// AuthService provides authentication use cases across the three account
// tables.
type AuthService struct {
	patients   authPatientRepository
	caregivers authCaregiverRepository
	therapists authTherapistRepository
	tokens     refreshTokenStore
	validator  *validator.Validate
	logger     *zap.Logger
	config     AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(patients authPatientRepository, caregivers authCaregiverRepository, therapists authTherapistRepository, tokens refreshTokenStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		patients:   patients,
		caregivers: caregivers,
		therapists: therapists,
		tokens:     tokens,
		validator:  validate,
		logger:     logger,
		config:     config,
	}
}

// Login authenticates an account by email, trying the three tables in
// paciente, cuidador, terapeuta order, and returns issued tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, hash, err := s.resolveAccount(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshValue, err := s.generateRefreshTokenString()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Role:      account.Role,
		Token:     refreshValue,
		ExpiresAt: time.Now().UTC().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now().UTC(),
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     time.Now().UTC(),
		Account:      account,
	}, nil
}

// RefreshToken exchanges a refresh token for a new access token pair,
// rotating the stored token.
func (s *AuthService) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	stored, err := s.tokens.Find(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidToken, "refresh token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch refresh token")
	}

	if stored.Revoked || time.Now().UTC().After(stored.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrTokenExpired, "refresh token is expired or revoked")
	}

	account, err := s.loadAccount(ctx, stored.AccountID, stored.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidToken, "associated account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}

	accessToken, err := s.generateAccessToken(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate access token")
	}

	refreshValue, err := s.generateRefreshTokenString()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	rotated := &models.RefreshToken{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Role:      account.Role,
		Token:     refreshValue,
		ExpiresAt: time.Now().UTC().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now().UTC(),
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.tokens.Create(ctx, rotated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}

	return &models.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: rotated.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     time.Now().UTC(),
	}, nil
}

// Logout revokes every refresh token stored for the authenticated account.
// The access token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthenticated
	}
	if err := s.tokens.RevokeByAccount(ctx, claims.AccountID, claims.Role); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke refresh tokens")
	}
	s.logger.Info("account logged out", zap.Int64("account_id", claims.AccountID), zap.String("role", string(claims.Role)))
	return nil
}

// RegisterPatient creates a patient account. Optional therapist and
// caregiver emails are resolved to ids; an unknown reference is a
// validation error, not a silent nil link.
func (s *AuthService) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (*models.Patient, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid patient payload")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
	}

	exists, err := s.patients.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	var therapistID *int64
	if req.TherapistEmail != "" {
		therapist, err := s.therapists.FindByEmail(ctx, req.TherapistEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no therapist registered with this email")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve therapist")
		}
		therapistID = &therapist.ID
	}

	var caregiverID *int64
	if req.CaregiverEmail != "" {
		caregiver, err := s.caregivers.FindByEmail(ctx, req.CaregiverEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no caregiver registered with this email")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve caregiver")
		}
		caregiverID = &caregiver.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	patient := &models.Patient{
		Name:         req.Name,
		Email:        req.Email,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Sex:          req.Sex,
		BirthDate:    birthDate,
		PasswordHash: string(hash),
		TherapistID:  therapistID,
		CaregiverID:  caregiverID,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create patient")
	}
	return patient, nil
}

// RegisterTherapist creates a therapist account enforcing the unique
// email, cpf and crp columns.
func (s *AuthService) RegisterTherapist(ctx context.Context, req RegisterTherapistRequest) (*models.Therapist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid therapist payload")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
	}

	for _, unique := range []struct{ column, value, message string }{
		{"email", req.Email, "email already registered"},
		{"cpf", req.CPF, "cpf already registered"},
		{"crp", req.CRP, "crp already registered"},
	} {
		exists, err := s.therapists.ExistsByUnique(ctx, unique.column, unique.value, 0)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to validate %s", unique.column))
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, unique.message)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	therapist := &models.Therapist{
		Name:         req.Name,
		Email:        req.Email,
		CPF:          req.CPF,
		CRP:          req.CRP,
		Phone:        req.Phone,
		Sex:          req.Sex,
		BirthDate:    birthDate,
		PasswordHash: string(hash),
	}
	if err := s.therapists.Create(ctx, therapist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create therapist")
	}
	return therapist, nil
}

// RegisterCaregiver creates a caregiver account.
func (s *AuthService) RegisterCaregiver(ctx context.Context, req RegisterCaregiverRequest) (*models.Caregiver, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid caregiver payload")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
	}

	exists, err := s.caregivers.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	caregiver := &models.Caregiver{
		Name:         req.Name,
		Email:        req.Email,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Sex:          req.Sex,
		BirthDate:    birthDate,
		PasswordHash: string(hash),
	}
	if err := s.caregivers.Create(ctx, caregiver); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create caregiver")
	}
	return caregiver, nil
}

// ValidateToken parses and validates an access token returning the claims.
// Expiry is reported distinctly from other verification failures.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrTokenExpired.Code, appErrors.ErrTokenExpired.Status, "token expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrInvalidToken, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) resolveAccount(ctx context.Context, email string) (models.AccountInfo, string, error) {
	if patient, err := s.patients.FindByEmail(ctx, email); err == nil {
		return models.AccountInfo{ID: patient.ID, Email: patient.Email, Name: patient.Name, Role: models.RolePatient}, patient.PasswordHash, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.AccountInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if caregiver, err := s.caregivers.FindByEmail(ctx, email); err == nil {
		return models.AccountInfo{ID: caregiver.ID, Email: caregiver.Email, Name: caregiver.Name, Role: models.RoleCaregiver}, caregiver.PasswordHash, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.AccountInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if therapist, err := s.therapists.FindByEmail(ctx, email); err == nil {
		return models.AccountInfo{ID: therapist.ID, Email: therapist.Email, Name: therapist.Name, Role: models.RoleTherapist}, therapist.PasswordHash, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.AccountInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	return models.AccountInfo{}, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
}

func (s *AuthService) loadAccount(ctx context.Context, id int64, role models.Role) (models.AccountInfo, error) {
	switch role {
	case models.RolePatient:
		patient, err := s.patients.FindByID(ctx, id)
		if err != nil {
			return models.AccountInfo{}, err
		}
		return models.AccountInfo{ID: patient.ID, Email: patient.Email, Name: patient.Name, Role: role}, nil
	case models.RoleCaregiver:
		caregiver, err := s.caregivers.FindByID(ctx, id)
		if err != nil {
			return models.AccountInfo{}, err
		}
		return models.AccountInfo{ID: caregiver.ID, Email: caregiver.Email, Name: caregiver.Name, Role: role}, nil
	case models.RoleTherapist:
		therapist, err := s.therapists.FindByID(ctx, id)
		if err != nil {
			return models.AccountInfo{}, err
		}
		return models.AccountInfo{ID: therapist.ID, Email: therapist.Email, Name: therapist.Name, Role: role}, nil
	}
	return models.AccountInfo{}, sql.ErrNoRows
}

func (s *AuthService) generateAccessToken(account models.AccountInfo) (string, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		AccountID: account.ID,
		Role:      account.Role,
		Email:     account.Email,
		Name:      account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", account.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) generateRefreshTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
