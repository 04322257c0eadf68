package assets

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// AssetService owns asset lifecycle mutations. Decomposition never writes
// asset rows directly, it goes through MarkRetiredWithProvenance.
type AssetService struct {
	assetsRepo AssetRepository
	auditLog   *auditlog.Auditlog
	logger     *zap.Logger
}

func NewAssetService(assetsRepo AssetRepository, auditLog *auditlog.Auditlog, logger *zap.Logger) *AssetService {
	return &AssetService{
		assetsRepo: assetsRepo,
		auditLog:   auditLog,
		logger:     logger,
	}
}

func (s *AssetService) GetAsset(companyID, assetID int) (*models.Asset, error) {
	return s.assetsRepo.GetAsset(companyID, assetID)
}

func (s *AssetService) ListAssets(companyID int, status string) ([]models.Asset, error) {
	if status != "" {
		if _, err := metadata.NewAssetStatus(status); err != nil {
			return nil, err
		}
	}
	return s.assetsRepo.ListAssets(companyID, status)
}

func (s *AssetService) CreateAsset(companyID int, req models.AssetRequest) (*models.Asset, error) {
	asset, err := s.assetsRepo.PersistAsset(req, companyID)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"asset_tag": asset.AssetTag,
			"status":    asset.Status,
		},
		asset,
	)

	return asset, nil
}

// TransitionStatus validates the move against the status graph before
// touching the row. RETIRED always clears is_active.
func (s *AssetService) TransitionStatus(companyID, assetID int, newStatus metadata.AssetStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("status %q: %w", newStatus, custom_error.ErrInvalidTransition)
	}

	asset, err := s.assetsRepo.GetAsset(companyID, assetID)
	if err != nil {
		return err
	}

	if !asset.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot move asset %d from %s to %s: %w",
			assetID, asset.Status, newStatus, custom_error.ErrInvalidTransition)
	}

	// An asset referenced by an unexecuted breakdown request stays active;
	// retiring it here would strand the request. The engine retires through
	// MarkRetiredWithProvenance instead, after completing the request.
	if newStatus.IsTerminal() {
		inFlight, err := s.assetsRepo.HasInFlightBreakdown(companyID, assetID)
		if err != nil {
			return err
		}
		if inFlight {
			return fmt.Errorf("asset %d has an in-flight breakdown request and cannot be retired: %w",
				assetID, custom_error.ErrInvalidTransition)
		}
	}

	isActive := !newStatus.IsTerminal()
	if err := s.assetsRepo.UpdateStatus(companyID, assetID, newStatus.String(), isActive); err != nil {
		return err
	}

	go s.auditLog.Log(
		"status_change",
		map[string]interface{}{
			"from": asset.Status,
			"to":   newStatus,
		},
		asset,
	)

	return nil
}

// MarkRetiredWithProvenance is the engine-facing retirement path. It runs
// inside the caller's transaction and appends the provenance note to the
// asset's history.
func (s *AssetService) MarkRetiredWithProvenance(tx *goqu.TxDatabase, companyID, assetID int, note string) error {
	return s.assetsRepo.MarkRetired(tx, companyID, assetID, note)
}

// GetAssetForUpdate locks the asset row inside the caller's transaction.
func (s *AssetService) GetAssetForUpdate(tx *goqu.TxDatabase, companyID, assetID int) (*models.Asset, error) {
	return s.assetsRepo.GetAssetForUpdate(tx, companyID, assetID)
}

// CreateAssembledAsset inserts the asset produced by an assembly request,
// inside the assembly transaction.
func (s *AssetService) CreateAssembledAsset(tx *goqu.TxDatabase, companyID int, plan models.AssetPlan, note string) (int, error) {
	return s.assetsRepo.InsertAssembledAsset(tx, plan, companyID, note)
}

// HasInFlightBreakdown reports whether a non-terminal breakdown request
// already references the asset.
func (s *AssetService) HasInFlightBreakdown(companyID, assetID int) (bool, error) {
	return s.assetsRepo.HasInFlightBreakdown(companyID, assetID)
}

// IsEligibleForDecomposition reports whether the asset may become the
// source of a new breakdown request: it must exist, be active, not be
// retired, and not already have an in-flight breakdown.
func (s *AssetService) IsEligibleForDecomposition(companyID, assetID int) (bool, error) {
	asset, err := s.assetsRepo.GetAsset(companyID, assetID)
	if err != nil {
		return false, err
	}

	if !asset.IsActive || asset.Status.IsTerminal() {
		return false, nil
	}

	inFlight, err := s.assetsRepo.HasInFlightBreakdown(companyID, assetID)
	if err != nil {
		return false, err
	}

	return !inFlight, nil
}
