package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/mock"
	"github.com/MKhiriev/go-admin-mixins/internal/service"
	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetServerVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.BuildInfoResponse{
		Version: "1.2.3",
		Date:    "2026-01-01",
		Commit:  "abc123",
	})

	h := &Handler{logger: logger.Nop(), services: &service.Services{AppInfoService: appInfo}}

	rr := httptest.NewRecorder()
	h.getServerVersion(rr, withNopLogger(httptest.NewRequest(http.MethodGet, "/api/version", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"version":"1.2.3","date":"2026-01-01","commit":"abc123"},"message":""}`, rr.Body.String())
}
