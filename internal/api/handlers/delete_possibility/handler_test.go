package delete_possibility

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

type fakeService struct {
	groupID       int64
	possibilityID int64
	userID        int64
	resp          *models.GroupResponse
	err           error
}

func (f *fakeService) DeletePossibility(ctx context.Context, groupID, possibilityID, userID int64) (*models.GroupResponse, error) {
	f.groupID, f.possibilityID, f.userID = groupID, possibilityID, userID
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *fakeService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/groups/{groupId}/possibilities/{possibilityId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Deleted(t *testing.T) {
	svc := &fakeService{resp: &models.GroupResponse{
		ID:            10,
		Possibilities: []models.PossibilityResponse{{ID: 2, Index: 2, TableIDs: []int64{6, 7}}},
	}}

	rec := serve(svc, "/groups/10/possibilities/1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), svc.groupID)
	assert.Equal(t, int64(1), svc.possibilityID)
	assert.Equal(t, int64(42), svc.userID)

	var body models.GroupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Possibilities, 1)
	assert.Equal(t, int64(2), body.Possibilities[0].ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad group id", path: "/groups/x/possibilities/1", wantStatus: http.StatusBadRequest},
		{name: "bad possibility id", path: "/groups/10/possibilities/x", wantStatus: http.StatusBadRequest},
		{
			name: "group not found", path: "/groups/404/possibilities/1",
			err:        fmt.Errorf("%w: DeletePossibility - group=404", domain.ErrGroupNotFound),
			wantStatus: http.StatusNotFound, wantCode: "GROUP_NOT_FOUND",
		},
		{
			name: "possibility of another group", path: "/groups/10/possibilities/999",
			err:        fmt.Errorf("%w: DeletePossibility - possibility=999", domain.ErrPossibilityNotFound),
			wantStatus: http.StatusNotFound, wantCode: "POSSIBILITY_NOT_FOUND",
		},
		{
			name: "internal", path: "/groups/10/possibilities/1",
			err:        fmt.Errorf("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.path)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
