package spareparts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetPart(companyID, partID int) (*models.SparePart, error) {
	args := m.Called(companyID, partID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) GetPartByNumber(companyID int, partNumber string) (*models.SparePart, error) {
	args := m.Called(companyID, partNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) GetPartsByCategory(companyID int, cat category.SparePartCategory) ([]models.SparePart, error) {
	args := m.Called(companyID, cat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) ListParts(companyID int) ([]models.SparePart, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) ListLowStock(companyID int) ([]models.SparePart, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) UpsertExtractedPart(tx *goqu.TxDatabase, companyID int, record ExtractedPartRecord) (*models.SparePart, error) {
	args := m.Called(tx, companyID, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SparePart), args.Error(1)
}

func (m *MockLedgerRepository) DecrementStock(tx *goqu.TxDatabase, companyID int, partNumber string, quantity int) error {
	args := m.Called(tx, companyID, partNumber, quantity)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateThresholds(companyID, partID int, req models.ThresholdRequest) error {
	args := m.Called(companyID, partID, req)
	return args.Error(0)
}

type noopRecorder struct{}

func (noopRecorder) PersistLog(auditLog models.AuditLog, auditLogData interface{}) error {
	return nil
}

func newTestLedgerService(repo LedgerRepository) *LedgerService {
	return &LedgerService{
		ledgerRepo: repo,
		normalizer: category.NewNormalizer(category.NormalizerConfig{}),
		auditLog:   auditlog.NewAuditLog(noopRecorder{}, zap.NewNop()),
		logger:     zap.NewNop(),
		withTx: func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
	}
}

func TestCreateFromExtractionNormalizesCategories(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	components := []models.PlannedComponent{
		{Category: "perangkat lunak", Name: "License bundle", Quantity: 1, UnitCost: decimal.NewFromInt(50)},
		{Category: "hardware", PartNumber: "PN-RAM-01", Name: "Memory module", Quantity: 2, UnitCost: decimal.NewFromInt(30)},
	}

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.MatchedBy(func(record ExtractedPartRecord) bool {
		return record.Category == category.Software && record.Name == "License bundle" &&
			record.PartNumber != "" && record.Quantity == 1
	})).Return(&models.SparePart{ID: 10, Category: category.Software}, nil).Once()

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.MatchedBy(func(record ExtractedPartRecord) bool {
		return record.Category == category.Hardware && record.PartNumber == "PN-RAM-01" && record.Quantity == 2
	})).Return(&models.SparePart{ID: 11, Category: category.Hardware}, nil).Once()

	parts, warnings, err := service.CreateFromExtraction(nil, 1, 7, "req-1", components)
	assert.NoError(t, err)
	assert.Len(t, parts, 2)
	assert.Empty(t, warnings)

	mockRepo.AssertExpectations(t)
}

func TestCreateFromExtractionFlagsAmbiguousCategory(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	components := []models.PlannedComponent{
		{Category: "barang", Name: "Unknown thing", Quantity: 1},
	}

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.MatchedBy(func(record ExtractedPartRecord) bool {
		return record.Category == category.Hardware
	})).Return(&models.SparePart{ID: 12, Category: category.Hardware}, nil).Once()

	parts, warnings, err := service.CreateFromExtraction(nil, 1, 7, "req-1", components)
	assert.NoError(t, err)
	assert.Len(t, parts, 1)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ambiguous")

	mockRepo.AssertExpectations(t)
}

func TestCreateFromExtractionRejectsNonPositiveQuantity(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	components := []models.PlannedComponent{
		{Category: "hardware", Name: "Memory module", Quantity: 0},
	}

	_, _, err := service.CreateFromExtraction(nil, 1, 7, "req-1", components)
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "UpsertExtractedPart", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateFromExtractionGeneratesPartNumbers(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	components := []models.PlannedComponent{
		{Category: "consumable", Name: "Thermal paste", Quantity: 3},
	}

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.MatchedBy(func(record ExtractedPartRecord) bool {
		return strings.HasPrefix(record.PartNumber, "PN-CO-") && record.PartID != ""
	})).Return(&models.SparePart{ID: 13, Category: category.Consumable}, nil).Once()

	_, _, err := service.CreateFromExtraction(nil, 1, 7, "req-1", components)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestReserveForAssemblyValidatesBeforeDecrementing(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	lines := []models.PlannedComponent{
		{PartNumber: "PN-1", Quantity: 2},
		{PartNumber: "", Quantity: 1},
	}

	err := service.ReserveForAssembly(nil, 1, lines)
	assert.Error(t, err)

	// no decrement happens until every line passes validation
	mockRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveForAssemblyStopsOnInsufficientStock(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	lines := []models.PlannedComponent{
		{PartNumber: "PN-1", Quantity: 2},
		{PartNumber: "PN-2", Quantity: 5},
		{PartNumber: "PN-3", Quantity: 1},
	}

	mockRepo.On("DecrementStock", (*goqu.TxDatabase)(nil), 1, "PN-1", 2).Return(nil).Once()
	mockRepo.On("DecrementStock", (*goqu.TxDatabase)(nil), 1, "PN-2", 5).
		Return(custom_error.ErrInsufficientStock).Once()

	err := service.ReserveForAssembly(nil, 1, lines)
	assert.ErrorIs(t, err, custom_error.ErrInsufficientStock)

	mockRepo.AssertNotCalled(t, "DecrementStock", (*goqu.TxDatabase)(nil), 1, "PN-3", 1)
	mockRepo.AssertExpectations(t)
}

func TestReserveForAssemblyRejectsEmptyPlan(t *testing.T) {
	service := newTestLedgerService(new(MockLedgerRepository))

	err := service.ReserveForAssembly(nil, 1, nil)
	assert.Error(t, err)
}

func TestReserveStockRunsInTransaction(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	lines := []models.PlannedComponent{{PartNumber: "PN-1", Quantity: 1}}
	mockRepo.On("DecrementStock", (*goqu.TxDatabase)(nil), 1, "PN-1", 1).Return(nil).Once()

	err := service.ReserveStock(context.Background(), 1, lines)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestCreateSparePartNormalizesAndWarns(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	req := models.SparePartRequest{
		PartNumber: "PN-9",
		Name:       "Mystery item",
		Category:   "barang lain",
		StockLevel: 4,
	}

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.MatchedBy(func(record ExtractedPartRecord) bool {
		return record.Category == category.Hardware && record.PartNumber == "PN-9" && record.Quantity == 4
	})).Return(&models.SparePart{ID: 14, PartNumber: "PN-9", Category: category.Hardware, StockLevel: 4}, nil).Once()

	part, warnings, err := service.CreateSparePart(context.Background(), 1, req)
	assert.NoError(t, err)
	assert.Equal(t, "PN-9", part.PartNumber)
	assert.Len(t, warnings, 1)

	mockRepo.AssertExpectations(t)
}

func TestCreateSparePartRejectsNegativeStock(t *testing.T) {
	service := newTestLedgerService(new(MockLedgerRepository))

	_, _, err := service.CreateSparePart(context.Background(), 1, models.SparePartRequest{
		PartNumber: "PN-9",
		Name:       "Memory module",
		Category:   "hardware",
		StockLevel: -1,
	})
	assert.Error(t, err)
}

func TestGetByCategoryAcceptsOnlyEnumLiterals(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	_, err := service.GetByCategory(1, "perangkat lunak")
	assert.Error(t, err)

	expected := []models.SparePart{{ID: 1, Category: category.Software}}
	mockRepo.On("GetPartsByCategory", 1, category.Software).Return(expected, nil).Once()

	parts, err := service.GetByCategory(1, "SOFTWARE")
	assert.NoError(t, err)
	assert.Equal(t, expected, parts)

	mockRepo.AssertExpectations(t)
}

func TestGetPartByNumber(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	expected := &models.SparePart{PartNumber: "PN-RAM-01", StockLevel: 5}
	mockRepo.On("GetPartByNumber", 1, "PN-RAM-01").Return(expected, nil).Once()

	part, err := service.GetPartByNumber(1, "PN-RAM-01")
	assert.NoError(t, err)
	assert.Equal(t, expected, part)

	mockRepo.AssertExpectations(t)
}

func TestAdjustThresholds(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	err := service.AdjustThresholds(1, 5, models.ThresholdRequest{MinStock: 10, MaxStock: 3})
	assert.Error(t, err)

	req := models.ThresholdRequest{MinStock: 2, MaxStock: 20, ReorderPoint: 5}
	mockRepo.On("UpdateThresholds", 1, 5, req).Return(nil).Once()

	err = service.AdjustThresholds(1, 5, req)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestCreateFromExtractionPropagatesRepoError(t *testing.T) {
	mockRepo := new(MockLedgerRepository)
	service := newTestLedgerService(mockRepo)

	components := []models.PlannedComponent{
		{Category: "hardware", Name: "Memory module", Quantity: 1},
	}

	mockRepo.On("UpsertExtractedPart", (*goqu.TxDatabase)(nil), 1, mock.Anything).
		Return(nil, errors.New("duplicate part number")).Once()

	_, _, err := service.CreateFromExtraction(nil, 1, 7, "req-1", components)
	assert.Error(t, err)
}
