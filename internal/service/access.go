package service

import (
	"github.com/fefaortiz/tear-api/internal/models"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

// authorizePatientAccess decides whether the authenticated principal may
// touch data belonging to the given patient. Patients reach only their own
// records, caregivers the records of linked patients, and therapists get
// read-only access to linked patients.
func authorizePatientAccess(claims *models.JWTClaims, patient *models.Patient, write bool) error {
	if claims == nil {
		return appErrors.ErrUnauthenticated
	}
	switch claims.Role {
	case models.RolePatient:
		if claims.AccountID == patient.ID {
			return nil
		}
	case models.RoleCaregiver:
		if patient.CaregiverID != nil && *patient.CaregiverID == claims.AccountID {
			return nil
		}
	case models.RoleTherapist:
		if !write && patient.TherapistID != nil && *patient.TherapistID == claims.AccountID {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "no access to this patient")
}
