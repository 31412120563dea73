package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"megapost/internal/service/reconcile"
	"megapost/pkg/utils"
)

type mockReconcileService struct {
	mock.Mock
}

func (m *mockReconcileService) Run(ctx context.Context) (*reconcile.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Summary), args.Error(1)
}

func setupReconcileRouter(svc reconcile.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewReconcileHandler(svc)
	router.POST("/api/v1/update-products", h.Run)
	return router
}

func TestReconcileHandler_Run_Success(t *testing.T) {
	svc := new(mockReconcileService)
	svc.On("Run", mock.Anything).Return(&reconcile.Summary{
		Tenants: 2,
		Checked: 40,
		Updated: 3,
		Skipped: 5,
	}, nil)

	router := setupReconcileRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/update-products", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["tenants"])
	assert.Equal(t, float64(3), data["updated"])
	svc.AssertExpectations(t)
}

func TestReconcileHandler_Run_ServiceError(t *testing.T) {
	svc := new(mockReconcileService)
	svc.On("Run", mock.Anything).Return(nil, errors.New("loading tenant settings: db down"))

	router := setupReconcileRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/update-products", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "db down")
	svc.AssertExpectations(t)
}
