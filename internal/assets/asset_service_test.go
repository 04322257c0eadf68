package assets

import (
	"errors"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) GetAsset(companyID, assetID int) (*models.Asset, error) {
	args := m.Called(companyID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetAssetForUpdate(tx *goqu.TxDatabase, companyID, assetID int) (*models.Asset, error) {
	args := m.Called(tx, companyID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) PersistAsset(req models.AssetRequest, companyID int) (*models.Asset, error) {
	args := m.Called(req, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) InsertAssembledAsset(tx *goqu.TxDatabase, plan models.AssetPlan, companyID int, note string) (int, error) {
	args := m.Called(tx, plan, companyID, note)
	return args.Int(0), args.Error(1)
}

func (m *MockAssetRepository) UpdateStatus(companyID, assetID int, status string, isActive bool) error {
	args := m.Called(companyID, assetID, status, isActive)
	return args.Error(0)
}

func (m *MockAssetRepository) MarkRetired(tx *goqu.TxDatabase, companyID, assetID int, note string) error {
	args := m.Called(tx, companyID, assetID, note)
	return args.Error(0)
}

func (m *MockAssetRepository) HasInFlightBreakdown(companyID, assetID int) (bool, error) {
	args := m.Called(companyID, assetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) ListAssets(companyID int, status string) ([]models.Asset, error) {
	args := m.Called(companyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

type noopRecorder struct{}

func (noopRecorder) PersistLog(auditLog models.AuditLog, auditLogData interface{}) error {
	return nil
}

func newTestService(repo AssetRepository) *AssetService {
	return &AssetService{
		assetsRepo: repo,
		auditLog:   auditlog.NewAuditLog(noopRecorder{}, zap.NewNop()),
		logger:     zap.NewNop(),
	}
}

func TestTransitionStatus(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	asset := &models.Asset{ID: 7, Status: metadata.StatusAvailable, IsActive: true, CompanyID: 1}

	mockRepo.On("GetAsset", 1, 7).Return(asset, nil).Once()
	mockRepo.On("UpdateStatus", 1, 7, "ASSIGNED", true).Return(nil).Once()

	err := service.TransitionStatus(1, 7, metadata.StatusAssigned)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestTransitionStatusRetiredClearsActive(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	asset := &models.Asset{ID: 7, Status: metadata.StatusInMaintenance, IsActive: true, CompanyID: 1}

	mockRepo.On("GetAsset", 1, 7).Return(asset, nil).Once()
	mockRepo.On("HasInFlightBreakdown", 1, 7).Return(false, nil).Once()
	mockRepo.On("UpdateStatus", 1, 7, "RETIRED", false).Return(nil).Once()

	err := service.TransitionStatus(1, 7, metadata.StatusRetired)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestTransitionStatusRefusesRetireWithInFlightBreakdown(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	asset := &models.Asset{ID: 7, Status: metadata.StatusInMaintenance, IsActive: true, CompanyID: 1}

	mockRepo.On("GetAsset", 1, 7).Return(asset, nil).Once()
	mockRepo.On("HasInFlightBreakdown", 1, 7).Return(true, nil).Once()

	err := service.TransitionStatus(1, 7, metadata.StatusRetired)
	assert.ErrorIs(t, err, custom_error.ErrInvalidTransition)

	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStatusRejectsIllegalMove(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	retired := &models.Asset{ID: 7, Status: metadata.StatusRetired, IsActive: false, CompanyID: 1}
	mockRepo.On("GetAsset", 1, 7).Return(retired, nil).Once()

	err := service.TransitionStatus(1, 7, metadata.StatusAvailable)
	assert.ErrorIs(t, err, custom_error.ErrInvalidTransition)

	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	err := service.TransitionStatus(1, 7, metadata.AssetStatus("BROKEN"))
	assert.ErrorIs(t, err, custom_error.ErrInvalidTransition)
}

func TestIsEligibleForDecomposition(t *testing.T) {
	tests := []struct {
		name     string
		asset    *models.Asset
		inFlight bool
		want     bool
	}{
		{
			name:  "active available asset",
			asset: &models.Asset{ID: 7, Status: metadata.StatusAvailable, IsActive: true},
			want:  true,
		},
		{
			name:  "retired asset",
			asset: &models.Asset{ID: 7, Status: metadata.StatusRetired, IsActive: false},
			want:  false,
		},
		{
			name:  "inactive asset",
			asset: &models.Asset{ID: 7, Status: metadata.StatusAvailable, IsActive: false},
			want:  false,
		},
		{
			name:     "asset with in-flight breakdown",
			asset:    &models.Asset{ID: 7, Status: metadata.StatusAvailable, IsActive: true},
			inFlight: true,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAssetRepository)
			service := newTestService(mockRepo)

			mockRepo.On("GetAsset", 1, 7).Return(tt.asset, nil).Once()
			if tt.asset.IsActive && !tt.asset.Status.IsTerminal() {
				mockRepo.On("HasInFlightBreakdown", 1, 7).Return(tt.inFlight, nil).Once()
			}

			eligible, err := service.IsEligibleForDecomposition(1, 7)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, eligible)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestIsEligibleForDecompositionMissingAsset(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetAsset", 1, 99).Return(nil, custom_error.ErrNotFound).Once()

	_, err := service.IsEligibleForDecomposition(1, 99)
	assert.ErrorIs(t, err, custom_error.ErrNotFound)
}

func TestListAssetsRejectsUnknownStatusFilter(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	_, err := service.ListAssets(1, "SOMETHING_ELSE")
	assert.Error(t, err)

	mockRepo.AssertNotCalled(t, "ListAssets", mock.Anything, mock.Anything)
}

func TestListAssetsPassesFilterThrough(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	expected := []models.Asset{{ID: 1}, {ID: 2}}
	mockRepo.On("ListAssets", 1, "AVAILABLE").Return(expected, nil).Once()

	assets, err := service.ListAssets(1, "AVAILABLE")
	assert.NoError(t, err)
	assert.Equal(t, expected, assets)

	mockRepo.AssertExpectations(t)
}

func TestTransitionStatusPropagatesRepoError(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetAsset", 1, 7).Return(nil, errors.New("connection refused")).Once()

	err := service.TransitionStatus(1, 7, metadata.StatusAssigned)
	assert.Error(t, err)
}
