package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mes-platform/scheduling-service/internal/application"
	"github.com/mes-platform/scheduling-service/internal/domain"
	apperrors "github.com/mes-platform/scheduling-service/pkg/errors"
	"github.com/mes-platform/scheduling-service/pkg/logging"
)

var errUnexpected = errors.New("unexpected call")

type fakeProductRepo struct {
	findByNamesFn func(context.Context, []string) ([]domain.ProductRecord, error)
	findAllFn     func(context.Context) ([]domain.ProductRecord, error)
}

func (f *fakeProductRepo) FindByNames(ctx context.Context, names []string) ([]domain.ProductRecord, error) {
	if f.findByNamesFn == nil {
		return nil, errUnexpected
	}
	return f.findByNamesFn(ctx, names)
}

func (f *fakeProductRepo) FindAll(ctx context.Context) ([]domain.ProductRecord, error) {
	if f.findAllFn == nil {
		return nil, errUnexpected
	}
	return f.findAllFn(ctx)
}

type fakeSetupRepo struct {
	loadFn func(context.Context) (domain.SetupTable, error)
}

func (f *fakeSetupRepo) Load(ctx context.Context) (domain.SetupTable, error) {
	if f.loadFn == nil {
		return nil, errUnexpected
	}
	return f.loadFn(ctx)
}

type fakePlanRepo struct {
	saveFn         func(context.Context, *domain.Plan) error
	findByPlanIDFn func(context.Context, string) (*domain.Plan, error)
	findRecentFn   func(context.Context, int) ([]*domain.Plan, error)
}

func (f *fakePlanRepo) Save(ctx context.Context, plan *domain.Plan) error {
	if f.saveFn == nil {
		return errUnexpected
	}
	return f.saveFn(ctx, plan)
}

func (f *fakePlanRepo) FindByPlanID(ctx context.Context, planID string) (*domain.Plan, error) {
	if f.findByPlanIDFn == nil {
		return nil, errUnexpected
	}
	return f.findByPlanIDFn(ctx, planID)
}

func (f *fakePlanRepo) FindRecent(ctx context.Context, limit int) ([]*domain.Plan, error) {
	if f.findRecentFn == nil {
		return nil, errUnexpected
	}
	return f.findRecentFn(ctx, limit)
}

type handlerEnv struct {
	router   *gin.Engine
	products *fakeProductRepo
	setups   *fakeSetupRepo
	plans    *fakePlanRepo
}

func newHandlerEnv() *handlerEnv {
	products := &fakeProductRepo{}
	setups := &fakeSetupRepo{}
	plans := &fakePlanRepo{}

	logger := logging.New(&logging.Config{
		Level:       logging.LevelInfo,
		ServiceName: "test",
		Environment: "test",
		Output:      io.Discard,
	})
	service := application.NewPlanningService(products, setups, plans, nil, logger, nil)
	handlers := NewHandlers(service, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, handlers)

	return &handlerEnv{
		router:   router,
		products: products,
		setups:   setups,
		plans:    plans,
	}
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testRecords() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			ProductName:         "Tray 40x60",
			JobCode:             "A",
			StageSecondsPerUnit: [domain.StageCount]float64{3600, 1800, 600},
			VacuumGroup:         "V1",
			TrimProcess:         "laser",
		},
	}
}

func TestCreatePlanBadJSON(t *testing.T) {
	env := newHandlerEnv()
	resp := performRequest(env.router, http.MethodPost, "/api/v1/plans", []byte("{bad"))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreatePlanMissingSelections(t *testing.T) {
	env := newHandlerEnv()

	body, err := json.Marshal(map[string]any{"selections": []any{}})
	require.NoError(t, err)

	resp := performRequest(env.router, http.MethodPost, "/api/v1/plans", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestCreatePlanSuccess(t *testing.T) {
	env := newHandlerEnv()
	env.products.findByNamesFn = func(context.Context, []string) ([]domain.ProductRecord, error) {
		return testRecords(), nil
	}
	env.setups.loadFn = func(context.Context) (domain.SetupTable, error) {
		return domain.SetupTable{}, nil
	}
	env.plans.saveFn = func(context.Context, *domain.Plan) error { return nil }

	body, err := json.Marshal(map[string]any{
		"selections": []map[string]any{
			{"productName": "Tray 40x60", "quantity": 1},
		},
		"origin": "2026-08-31T07:00:00Z",
	})
	require.NoError(t, err)

	resp := performRequest(env.router, http.MethodPost, "/api/v1/plans", body)
	require.Equal(t, http.StatusCreated, resp.Code)

	var dto application.PlanDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dto))
	require.NotEmpty(t, dto.PlanID)
	require.Len(t, dto.Lines, 1)
	require.InDelta(t, 280.0, dto.MakespanMinutes, 1e-6)
	require.True(t, dto.Optimal)
}

func TestCreatePlanUnknownProduct(t *testing.T) {
	env := newHandlerEnv()
	env.products.findByNamesFn = func(context.Context, []string) ([]domain.ProductRecord, error) {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"selections": []map[string]any{
			{"productName": "No Such Product", "quantity": 1},
		},
	})
	require.NoError(t, err)

	resp := performRequest(env.router, http.MethodPost, "/api/v1/plans", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "INPUT_ERROR", envelope.Error.Code)
	require.Equal(t, "No Such Product", envelope.Error.Details["productName"])
}

func TestGetPlanNotFound(t *testing.T) {
	env := newHandlerEnv()
	env.plans.findByPlanIDFn = func(ctx context.Context, planID string) (*domain.Plan, error) {
		return nil, apperrors.ErrNotFoundWithID("plan", planID)
	}

	resp := performRequest(env.router, http.MethodGet, "/api/v1/plans/PLN-missing", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListPlans(t *testing.T) {
	env := newHandlerEnv()
	env.plans.findRecentFn = func(ctx context.Context, limit int) ([]*domain.Plan, error) {
		require.Equal(t, 5, limit)
		return []*domain.Plan{{PlanID: "PLN-1"}, {PlanID: "PLN-2"}}, nil
	}

	resp := performRequest(env.router, http.MethodGet, "/api/v1/plans?limit=5", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Plans []application.PlanDTO `json:"plans"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Count)
	require.Equal(t, "PLN-1", envelope.Plans[0].PlanID)
}

func TestExportPlanCSVAttachment(t *testing.T) {
	env := newHandlerEnv()
	start := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	env.plans.findByPlanIDFn = func(ctx context.Context, planID string) (*domain.Plan, error) {
		return &domain.Plan{
			PlanID: planID,
			Timeline: domain.Timeline{
				{Label: "A - forming", Machine: "extruder", Start: start, End: start.Add(time.Hour)},
			},
		}, nil
	}

	resp := performRequest(env.router, http.MethodGet, "/api/v1/plans/PLN-1/export", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	require.Contains(t, resp.Header().Get("Content-Disposition"), `filename="PLN-1.csv"`)
	require.Contains(t, resp.Body.String(), "task,machine,start,end")
	require.Contains(t, resp.Body.String(), "A - forming")
}

func TestListProducts(t *testing.T) {
	env := newHandlerEnv()
	env.products.findAllFn = func(context.Context) ([]domain.ProductRecord, error) {
		return testRecords(), nil
	}

	resp := performRequest(env.router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Products []application.ProductDTO `json:"products"`
		Count    int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Count)
	require.Equal(t, "Tray 40x60", envelope.Products[0].ProductName)
}
