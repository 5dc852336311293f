package application

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mes-platform/scheduling-service/internal/domain"
	apperrors "github.com/mes-platform/scheduling-service/pkg/errors"
	"github.com/mes-platform/scheduling-service/pkg/logging"
)

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindByNames(ctx context.Context, names []string) ([]domain.ProductRecord, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductRecord), args.Error(1)
}

func (m *MockProductRepo) FindAll(ctx context.Context) ([]domain.ProductRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductRecord), args.Error(1)
}

type MockSetupRepo struct {
	mock.Mock
}

func (m *MockSetupRepo) Load(ctx context.Context) (domain.SetupTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SetupTable), args.Error(1)
}

type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Save(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepo) FindByPlanID(ctx context.Context, planID string) (*domain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockPlanRepo) FindRecent(ctx context.Context, limit int) ([]*domain.Plan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPlanCreated(ctx context.Context, event *domain.PlanCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *logging.Logger {
	config := logging.DefaultConfig("scheduling-service-test")
	config.Output = &bytes.Buffer{}
	return logging.New(config)
}

func catalogRecords() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			ProductName:         "Tray 40x60",
			JobCode:             "A",
			StageSecondsPerUnit: [domain.StageCount]float64{3600, 1800, 600},
			VacuumGroup:         "V1",
			TrimProcess:         "laser",
		},
		{
			ProductName:         "Lid 40x60",
			JobCode:             "B",
			StageSecondsPerUnit: [domain.StageCount]float64{2400, 1200, 300},
			VacuumGroup:         "V1",
			TrimProcess:         "laser",
		},
	}
}

func newTestService(products *MockProductRepo, setups *MockSetupRepo, plans *MockPlanRepo, publisher *MockPublisher) *PlanningService {
	var pub domain.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewPlanningService(products, setups, plans, pub, testLogger(), nil)
}

func TestCreatePlan(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)
	publisher := new(MockPublisher)

	products.On("FindByNames", mock.Anything, []string{"Tray 40x60", "Lid 40x60"}).
		Return(catalogRecords(), nil)
	setups.On("Load", mock.Anything).Return(domain.SetupTable{}, nil)
	plans.On("Save", mock.Anything, mock.AnythingOfType("*domain.Plan")).Return(nil)
	publisher.On("PublishPlanCreated", mock.Anything, mock.AnythingOfType("*domain.PlanCreatedEvent")).Return(nil)

	service := newTestService(products, setups, plans, publisher)

	origin := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	dto, err := service.CreatePlan(context.Background(), CreatePlanCommand{
		Selections: []ProductSelection{
			{ProductName: "Tray 40x60", Quantity: 1},
			{ProductName: "Lid 40x60", Quantity: 1},
		},
		Origin: &origin,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, dto.PlanID)
	assert.Len(t, dto.Lines, 2)
	assert.Len(t, dto.Timeline, 6)
	assert.True(t, dto.Optimal)
	// Base rates are 3600/1800/600 and 2400/1200/300 seconds per unit, so the
	// jobs match the canonical [60,30,10] / [40,20,5] minute instance; the
	// optimal order runs the lid first for a 320-minute makespan.
	assert.InDelta(t, 320.0, dto.MakespanMinutes, 1e-6)
	assert.Equal(t, "B", dto.Lines[0].JobCode)

	plans.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreatePlanUnknownProduct(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)

	products.On("FindByNames", mock.Anything, mock.Anything).
		Return(catalogRecords()[:1], nil)

	service := newTestService(products, setups, plans, nil)

	_, err := service.CreatePlan(context.Background(), CreatePlanCommand{
		Selections: []ProductSelection{
			{ProductName: "Tray 40x60", Quantity: 1},
			{ProductName: "No Such Product", Quantity: 1},
		},
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInputError, appErr.Code)
	assert.Equal(t, "No Such Product", appErr.Details["productName"])

	plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreatePlanNonPositiveQuantity(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)

	products.On("FindByNames", mock.Anything, mock.Anything).Return(catalogRecords(), nil)

	service := newTestService(products, setups, plans, nil)

	_, err := service.CreatePlan(context.Background(), CreatePlanCommand{
		Selections: []ProductSelection{{ProductName: "Tray 40x60", Quantity: 0}},
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInputError, appErr.Code)
	assert.Equal(t, "quantity", appErr.Details["field"])
}

func TestCreatePlanMissingMachineGroup(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)

	records := catalogRecords()[:1]
	records[0].VacuumGroup = ""
	products.On("FindByNames", mock.Anything, mock.Anything).Return(records, nil)

	service := newTestService(products, setups, plans, nil)

	_, err := service.CreatePlan(context.Background(), CreatePlanCommand{
		Selections: []ProductSelection{{ProductName: "Tray 40x60", Quantity: 1}},
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInputError, appErr.Code)
	assert.Equal(t, "vacuumGroup", appErr.Details["field"])
}

func TestCreatePlanPublishFailureIsNonFatal(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)
	publisher := new(MockPublisher)

	products.On("FindByNames", mock.Anything, mock.Anything).Return(catalogRecords(), nil)
	setups.On("Load", mock.Anything).Return(domain.SetupTable{}, nil)
	plans.On("Save", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishPlanCreated", mock.Anything, mock.Anything).
		Return(assert.AnError)

	service := newTestService(products, setups, plans, publisher)

	dto, err := service.CreatePlan(context.Background(), CreatePlanCommand{
		Selections: []ProductSelection{{ProductName: "Tray 40x60", Quantity: 1}},
	})
	require.NoError(t, err, "event delivery failure must not fail the plan")
	assert.NotEmpty(t, dto.PlanID)
}

func TestListProducts(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)

	products.On("FindAll", mock.Anything).Return(catalogRecords(), nil)

	service := newTestService(products, setups, plans, nil)

	dtos, err := service.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "Tray 40x60", dtos[0].ProductName)
	assert.Equal(t, "V1", dtos[0].VacuumGroup)
}

func TestExportPlanCSV(t *testing.T) {
	products := new(MockProductRepo)
	setups := new(MockSetupRepo)
	plans := new(MockPlanRepo)

	start := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	plan := &domain.Plan{
		PlanID: "PLN-20260831-test",
		Timeline: domain.Timeline{
			{Label: "A - forming", Machine: "extruder", Start: start, End: start.Add(time.Hour)},
			{Label: "A - vacuum (V1)", Machine: "V1", Start: start.Add(time.Hour), End: start.Add(90 * time.Minute)},
		},
	}
	plans.On("FindByPlanID", mock.Anything, "PLN-20260831-test").Return(plan, nil)

	service := newTestService(products, setups, plans, nil)

	var buf bytes.Buffer
	require.NoError(t, service.ExportPlanCSV(context.Background(), "PLN-20260831-test", &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "task,machine,start,end", lines[0])
	assert.Contains(t, lines[1], "A - forming")
	assert.Contains(t, lines[1], "extruder")
	assert.Contains(t, lines[2], "A - vacuum (V1)")
}
