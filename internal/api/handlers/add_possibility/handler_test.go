package add_possibility

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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
	req  *models.AddPossibilityRequest
	resp *models.GroupResponse
	err  error
}

func (f *fakeService) AddPossibility(ctx context.Context, req *models.AddPossibilityRequest) (*models.GroupResponse, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *fakeService, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/groups/{groupId}/possibilities", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{resp: &models.GroupResponse{
		ID: 10,
		Possibilities: []models.PossibilityResponse{
			{ID: 1, Index: 1, TableIDs: []int64{5, 6}},
			{ID: 4, Index: 2, TableIDs: []int64{5, 7}},
		},
	}}

	rec := serve(svc, "/groups/10/possibilities", `{"tableIds":[5,7]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(10), svc.req.GroupID)
	assert.Equal(t, int64(42), svc.req.UserID)
	assert.Equal(t, []int64{5, 7}, svc.req.TableIDs)

	var body models.GroupResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Possibilities, 2)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad group id", path: "/groups/x/possibilities", body: `{"tableIds":[5,6]}`, wantStatus: http.StatusBadRequest},
		{name: "group id from body is rejected", path: "/groups/10/possibilities", body: `{"GroupID":11,"tableIds":[5,6]}`, wantStatus: http.StatusBadRequest},
		{
			name: "single table", path: "/groups/10/possibilities", body: `{"tableIds":[5]}`,
			err:        fmt.Errorf("%w: AddPossibility - at least two tables", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT",
		},
		{
			name: "duplicate", path: "/groups/10/possibilities", body: `{"tableIds":[6,5]}`,
			err:        fmt.Errorf("%w: AddPossibility - tables [5 6]", domain.ErrDuplicatePossibility),
			wantStatus: http.StatusBadRequest, wantCode: "DUPLICATE_POSSIBILITY",
		},
		{
			name: "table outside sequence", path: "/groups/10/possibilities", body: `{"tableIds":[5,99]}`,
			err:        fmt.Errorf("%w: AddPossibility - table 99", domain.ErrInvalidTable),
			wantStatus: http.StatusNotFound, wantCode: "INVALID_TABLE",
		},
		{
			name: "group not found", path: "/groups/404/possibilities", body: `{"tableIds":[5,6]}`,
			err:        fmt.Errorf("%w: AddPossibility - group=404", domain.ErrGroupNotFound),
			wantStatus: http.StatusNotFound, wantCode: "GROUP_NOT_FOUND",
		},
		{
			name: "internal", path: "/groups/10/possibilities", body: `{"tableIds":[5,6]}`,
			err:        fmt.Errorf("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
