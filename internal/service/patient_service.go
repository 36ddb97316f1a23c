package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type patientProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Patient, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	ListByTherapist(ctx context.Context, therapistID int64) ([]models.Patient, error)
	ListByCaregiver(ctx context.Context, caregiverID int64) ([]models.Patient, error)
	Update(ctx context.Context, patient *models.Patient) error
}

type caregiverProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Caregiver, error)
	FindByEmail(ctx context.Context, email string) (*models.Caregiver, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, caregiver *models.Caregiver) error
}

type therapistProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Therapist, error)
	FindByEmail(ctx context.Context, email string) (*models.Therapist, error)
	ExistsByUnique(ctx context.Context, column, value string, excludeID int64) (bool, error)
	Update(ctx context.Context, therapist *models.Therapist) error
}

// UpdatePatientRequest carries a patient profile edit. Empty fields keep
// their current value; the therapist and caregiver links follow the same
// email-reference convention used at registration.
type UpdatePatientRequest struct {
	Name           string `json:"nome"`
	Email          string `json:"email" validate:"omitempty,email"`
	CPF            string `json:"cpf"`
	Phone          string `json:"telefone"`
	Sex            string `json:"sexo"`
	BirthDate      string `json:"data_nascimento"`
	TherapistEmail string `json:"email_terapeuta"`
	CaregiverEmail string `json:"email_cuidador"`
}

// UpdateTherapistRequest carries a therapist profile edit.
type UpdateTherapistRequest struct {
	Name      string `json:"nome"`
	Email     string `json:"email" validate:"omitempty,email"`
	CPF       string `json:"cpf"`
	CRP       string `json:"crp"`
	Phone     string `json:"telefone"`
	Sex       string `json:"sexo"`
	BirthDate string `json:"data_nascimento"`
}

// UpdateCaregiverRequest carries a caregiver profile edit.
type UpdateCaregiverRequest struct {
	Name      string `json:"nome"`
	Email     string `json:"email" validate:"omitempty,email"`
	CPF       string `json:"cpf"`
	Phone     string `json:"telefone"`
	Sex       string `json:"sexo"`
	BirthDate string `json:"data_nascimento"`
}

// PatientService covers the relationship lookups and profile edits for the
// three account kinds.
type PatientService struct {
	patients   patientProfileRepository
	caregivers caregiverProfileRepository
	therapists therapistProfileRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPatientService constructs a PatientService.
func NewPatientService(patients patientProfileRepository, caregivers caregiverProfileRepository, therapists therapistProfileRepository, validate *validator.Validate, logger *zap.Logger) *PatientService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatientService{
		patients:   patients,
		caregivers: caregivers,
		therapists: therapists,
		validator:  validate,
		logger:     logger,
	}
}

// ListByTherapist returns the patients linked to the therapist. Only the
// therapist themself may list their caseload.
func (s *PatientService) ListByTherapist(ctx context.Context, claims *models.JWTClaims, therapistID int64) ([]models.Patient, error) {
	if claims == nil || claims.Role != models.RoleTherapist || claims.AccountID != therapistID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no access to this therapist scope")
	}
	patients, err := s.patients.ListByTherapist(ctx, therapistID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list patients")
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	return patients, nil
}

// ListByCaregiver returns the patients linked to the caregiver. Only the
// caregiver themself may list them.
func (s *PatientService) ListByCaregiver(ctx context.Context, claims *models.JWTClaims, caregiverID int64) ([]models.Patient, error) {
	if claims == nil || claims.Role != models.RoleCaregiver || claims.AccountID != caregiverID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no access to this caregiver scope")
	}
	patients, err := s.patients.ListByCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list patients")
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	return patients, nil
}

// CaregiverInfo returns the caregiver linked to a patient. Anyone with
// read access to the patient may see it.
func (s *PatientService) CaregiverInfo(ctx context.Context, claims *models.JWTClaims, patientID int64) (*models.Caregiver, error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, false); err != nil {
		return nil, err
	}
	if patient.CaregiverID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "patient has no caregiver")
	}
	caregiver, err := s.caregivers.FindByID(ctx, *patient.CaregiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "caregiver not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load caregiver")
	}
	return caregiver, nil
}

// UpdatePatient edits a patient profile. The patient themself or their
// caregiver may edit; therapists cannot.
func (s *PatientService) UpdatePatient(ctx context.Context, claims *models.JWTClaims, patientID int64, req UpdatePatientRequest) (*models.Patient, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid patient payload")
	}

	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "patient not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load patient")
	}
	if err := authorizePatientAccess(claims, patient, true); err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != patient.Email {
		exists, err := s.patients.ExistsByEmail(ctx, req.Email, patientID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		patient.Email = req.Email
	}
	if req.Name != "" {
		patient.Name = req.Name
	}
	if req.CPF != "" {
		patient.CPF = req.CPF
	}
	if req.Phone != "" {
		patient.Phone = req.Phone
	}
	if req.Sex != "" {
		patient.Sex = req.Sex
	}
	if req.BirthDate != "" {
		birthDate, err := parseDate(req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
		}
		patient.BirthDate = birthDate
	}
	if req.TherapistEmail != "" {
		therapist, err := s.therapists.FindByEmail(ctx, req.TherapistEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no therapist registered with this email")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve therapist")
		}
		patient.TherapistID = &therapist.ID
	}
	if req.CaregiverEmail != "" {
		caregiver, err := s.caregivers.FindByEmail(ctx, req.CaregiverEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "no caregiver registered with this email")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve caregiver")
		}
		patient.CaregiverID = &caregiver.ID
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update patient")
	}
	return patient, nil
}

// UpdateTherapist edits a therapist profile. Self-only.
func (s *PatientService) UpdateTherapist(ctx context.Context, claims *models.JWTClaims, therapistID int64, req UpdateTherapistRequest) (*models.Therapist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid therapist payload")
	}
	if claims == nil || claims.Role != models.RoleTherapist || claims.AccountID != therapistID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no access to this therapist profile")
	}

	therapist, err := s.therapists.FindByID(ctx, therapistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "therapist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load therapist")
	}

	for _, unique := range []struct {
		column  string
		value   string
		current string
		message string
	}{
		{"email", req.Email, therapist.Email, "email already registered"},
		{"cpf", req.CPF, therapist.CPF, "cpf already registered"},
		{"crp", req.CRP, therapist.CRP, "crp already registered"},
	} {
		if unique.value == "" || unique.value == unique.current {
			continue
		}
		exists, err := s.therapists.ExistsByUnique(ctx, unique.column, unique.value, therapistID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate "+unique.column)
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, unique.message)
		}
	}

	if req.Email != "" {
		therapist.Email = req.Email
	}
	if req.CPF != "" {
		therapist.CPF = req.CPF
	}
	if req.CRP != "" {
		therapist.CRP = req.CRP
	}
	if req.Name != "" {
		therapist.Name = req.Name
	}
	if req.Phone != "" {
		therapist.Phone = req.Phone
	}
	if req.Sex != "" {
		therapist.Sex = req.Sex
	}
	if req.BirthDate != "" {
		birthDate, err := parseDate(req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
		}
		therapist.BirthDate = birthDate
	}

	if err := s.therapists.Update(ctx, therapist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update therapist")
	}
	return therapist, nil
}

// UpdateCaregiver edits a caregiver profile. Self-only.
func (s *PatientService) UpdateCaregiver(ctx context.Context, claims *models.JWTClaims, caregiverID int64, req UpdateCaregiverRequest) (*models.Caregiver, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid caregiver payload")
	}
	if claims == nil || claims.Role != models.RoleCaregiver || claims.AccountID != caregiverID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no access to this caregiver profile")
	}

	caregiver, err := s.caregivers.FindByID(ctx, caregiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "caregiver not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load caregiver")
	}

	if req.Email != "" && req.Email != caregiver.Email {
		exists, err := s.caregivers.ExistsByEmail(ctx, req.Email, caregiverID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		caregiver.Email = req.Email
	}
	if req.Name != "" {
		caregiver.Name = req.Name
	}
	if req.CPF != "" {
		caregiver.CPF = req.CPF
	}
	if req.Phone != "" {
		caregiver.Phone = req.Phone
	}
	if req.Sex != "" {
		caregiver.Sex = req.Sex
	}
	if req.BirthDate != "" {
		birthDate, err := parseDate(req.BirthDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "data_nascimento must be YYYY-MM-DD")
		}
		caregiver.BirthDate = birthDate
	}

	if err := s.caregivers.Update(ctx, caregiver); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update caregiver")
	}
	return caregiver, nil
}
