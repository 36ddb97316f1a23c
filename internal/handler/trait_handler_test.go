package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefaortiz/tear-api/internal/dto"
	"github.com/fefaortiz/tear-api/internal/middleware"
	"github.com/fefaortiz/tear-api/internal/models"
	"github.com/fefaortiz/tear-api/internal/service"
	appErrors "github.com/fefaortiz/tear-api/pkg/errors"
)

type fakeTraitSrv struct {
	rows          []dto.DailyTrackingRow
	rowsErr       error
	created       *models.Trait
	createErr     error
	deleteErr     error
	lastPatientID int64
	lastTraitID   int64
}

func (f *fakeTraitSrv) DailyTracking(_ context.Context, _ *models.JWTClaims, patientID int64) ([]dto.DailyTrackingRow, error) {
	f.lastPatientID = patientID
	return f.rows, f.rowsErr
}

func (f *fakeTraitSrv) Create(_ context.Context, _ *models.JWTClaims, patientID int64, _ service.CreateTraitRequest) (*models.Trait, error) {
	f.lastPatientID = patientID
	return f.created, f.createErr
}

func (f *fakeTraitSrv) Delete(_ context.Context, _ *models.JWTClaims, traitID int64) error {
	f.lastTraitID = traitID
	return f.deleteErr
}

type errorEnvelope struct {
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestTraitHandlerDailyTrackingWireFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	score := 4
	srv := &fakeTraitSrv{rows: []dto.DailyTrackingRow{
		{TraitID: 1, Name: "Sono", Score: &score, UpdatedToday: true, Creator: "Ana", CreatorRole: models.RolePatient},
		{TraitID: 2, Name: "Apetite", Creator: "Ana", CreatorRole: models.RolePatient},
	}}
	handler := NewTraitHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/traits/daily-tracking/7", nil)
	c.Params = gin.Params{{Key: "patientId", Value: "7"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: 7, Role: models.RolePatient})

	handler.DailyTracking(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), srv.lastPatientID)

	var envelope struct {
		Data []map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)

	first := envelope.Data[0]
	assert.Equal(t, "1", string(first["idtraits"]))
	assert.Equal(t, `"Sono"`, string(first["nome"]))
	assert.Equal(t, "4", string(first["nota"]))
	assert.Equal(t, "true", string(first["atualizadoHoje"]))
	assert.Equal(t, `"Ana"`, string(first["criador"]))
	assert.Equal(t, `"PACIENTE"`, string(first["criadorRole"]))

	second := envelope.Data[1]
	assert.Equal(t, "null", string(second["nota"]))
	assert.Equal(t, "false", string(second["atualizadoHoje"]))
}

func TestTraitHandlerDailyTrackingRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTraitHandler(&fakeTraitSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/traits/daily-tracking/abc", nil)
	c.Params = gin.Params{{Key: "patientId", Value: "abc"}}

	handler.DailyTracking(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestTraitHandlerDailyTrackingForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTraitHandler(&fakeTraitSrv{rowsErr: appErrors.ErrForbidden})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/traits/daily-tracking/7", nil)
	c.Params = gin.Params{{Key: "patientId", Value: "7"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: 9, Role: models.RolePatient})

	handler.DailyTracking(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTraitHandlerCreateReturnsCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTraitSrv{created: &models.Trait{ID: 42, PatientID: 7, Name: "Sono"}}
	handler := NewTraitHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/traits/7", strings.NewReader(`{"nome":"Sono"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "patientId", Value: "7"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: 7, Role: models.RolePatient})

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), srv.lastPatientID)
}

func TestTraitHandlerDeleteNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTraitSrv{}
	handler := NewTraitHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/traits/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{AccountID: 7, Role: models.RolePatient})

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), srv.lastTraitID)
}
