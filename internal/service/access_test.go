package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fefaortiz/tear-api/internal/models"
)

func TestAuthorizePatientAccess(t *testing.T) {
	patient := linkedPatient(7, 3, 5)

	tests := []struct {
		name    string
		claims  *models.JWTClaims
		write   bool
		allowed bool
	}{
		{"patient reads own data", patientClaims(7), false, true},
		{"patient writes own data", patientClaims(7), true, true},
		{"patient blocked from another patient", patientClaims(8), false, false},
		{"linked caregiver reads", caregiverClaims(5), false, true},
		{"linked caregiver writes", caregiverClaims(5), true, true},
		{"unlinked caregiver blocked", caregiverClaims(6), false, false},
		{"linked therapist reads", therapistClaims(3), false, true},
		{"linked therapist cannot write", therapistClaims(3), true, false},
		{"unlinked therapist blocked", therapistClaims(4), false, false},
		{"missing claims blocked", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizePatientAccess(tt.claims, patient, tt.write)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAuthorizePatientAccessNoLinks(t *testing.T) {
	patient := linkedPatient(7, 0, 0)

	assert.NoError(t, authorizePatientAccess(patientClaims(7), patient, true))
	assert.Error(t, authorizePatientAccess(caregiverClaims(5), patient, false))
	assert.Error(t, authorizePatientAccess(therapistClaims(3), patient, false))
}
