package assets

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// AssetRepository is the only write path for asset rows. The extraction
// engine reaches the tx-scoped methods through this interface so the whole
// decomposition commits as one unit.
type AssetRepository interface {
	GetAsset(companyID, assetID int) (*models.Asset, error)
	GetAssetForUpdate(tx *goqu.TxDatabase, companyID, assetID int) (*models.Asset, error)
	PersistAsset(req models.AssetRequest, companyID int) (*models.Asset, error)
	InsertAssembledAsset(tx *goqu.TxDatabase, plan models.AssetPlan, companyID int, note string) (int, error)
	UpdateStatus(companyID, assetID int, status string, isActive bool) error
	MarkRetired(tx *goqu.TxDatabase, companyID, assetID int, note string) error
	HasInFlightBreakdown(companyID, assetID int) (bool, error)
	ListAssets(companyID int, status string) ([]models.Asset, error)
}

type assetRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *assetRepository {
	return &assetRepository{Repo: r}
}

var assetColumns = []interface{}{
	"id", "asset_tag", "name", "status", "is_active", "notes",
	"specification", "category_id", "company_id", "created_at", "updated_at",
}

func (r *assetRepository) GetAsset(companyID, assetID int) (*models.Asset, error) {
	var flat models.FlatAssetRecord

	query := r.Repo.GoquDBWrapper.
		From("assets").
		Select(assetColumns...).
		Where(goqu.Ex{"id": assetID, "company_id": companyID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("asset %d: %w", assetID, custom_error.ErrNotFound)
	}

	asset, err := flat.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// GetAssetForUpdate locks the asset row for the rest of the transaction.
// Used by the extraction engine to re-validate eligibility after approval.
func (r *assetRepository) GetAssetForUpdate(tx *goqu.TxDatabase, companyID, assetID int) (*models.Asset, error) {
	var flat models.FlatAssetRecord

	found, err := tx.ScanStruct(&flat,
		`SELECT id, asset_tag, name, status, is_active, notes, specification,
		        category_id, company_id, created_at, updated_at
		 FROM assets WHERE id = $1 AND company_id = $2 FOR UPDATE`,
		assetID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset row: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("asset %d: %w", assetID, custom_error.ErrNotFound)
	}

	asset, err := flat.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (r *assetRepository) PersistAsset(req models.AssetRequest, companyID int) (*models.Asset, error) {
	specification, err := marshalSpecification(req.Specification)
	if err != nil {
		return nil, err
	}

	query := r.Repo.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"asset_tag":     req.AssetTag,
			"name":          req.Name,
			"status":        "AVAILABLE",
			"is_active":     true,
			"notes":         req.Notes,
			"specification": specification,
			"category_id":   req.CategoryID,
			"company_id":    companyID,
		}).
		Returning("id")

	asset := models.Asset{
		AssetTag:      req.AssetTag,
		Name:          req.Name,
		Status:        "AVAILABLE",
		IsActive:      true,
		Notes:         req.Notes,
		Specification: req.Specification,
		CategoryID:    req.CategoryID,
		CompanyID:     companyID,
	}

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, custom_error.WrapDBError("Duplicate asset tag", string(pqErr.Code))
			}
		}
		return nil, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return &asset, nil
}

// InsertAssembledAsset creates the asset produced by an assembly request.
// Runs inside the assembly transaction so a failed stock reservation never
// leaves a half-built asset behind.
func (r *assetRepository) InsertAssembledAsset(tx *goqu.TxDatabase, plan models.AssetPlan, companyID int, note string) (int, error) {
	specification, err := marshalSpecification(plan.Specification)
	if err != nil {
		return 0, err
	}

	query := tx.Insert("assets").
		Rows(goqu.Record{
			"asset_tag":     plan.AssetTag,
			"name":          plan.Name,
			"status":        "AVAILABLE",
			"is_active":     true,
			"notes":         note,
			"specification": specification,
			"category_id":   plan.CategoryID,
			"company_id":    companyID,
		}).
		Returning("id")

	var assetID int
	if _, err := query.Executor().ScanVal(&assetID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return 0, custom_error.WrapDBError("Duplicate asset tag", string(pqErr.Code))
			}
		}
		return 0, fmt.Errorf("failed to insert assembled asset record: %w", err)
	}

	return assetID, nil
}

func (r *assetRepository) UpdateStatus(companyID, assetID int, status string, isActive bool) error {
	query := r.Repo.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"status":     status,
			"is_active":  isActive,
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": assetID, "company_id": companyID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("asset %d: %w", assetID, custom_error.ErrNotFound)
	}

	return nil
}

// MarkRetired retires the asset and appends the provenance note without
// overwriting what is already there.
func (r *assetRepository) MarkRetired(tx *goqu.TxDatabase, companyID, assetID int, note string) error {
	query := tx.Update("assets").
		Set(goqu.Record{
			"status":     "RETIRED",
			"is_active":  false,
			"notes":      goqu.L("CASE WHEN notes = '' THEN ? ELSE notes || E'\\n' || ? END", note, note),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": assetID, "company_id": companyID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to retire asset %d: %w", assetID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("asset %d: %w", assetID, custom_error.ErrNotFound)
	}

	return nil
}

func (r *assetRepository) HasInFlightBreakdown(companyID, assetID int) (bool, error) {
	sql, args, err := r.Repo.GoquDBWrapper.
		From("decomposition_requests").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{
			"source_asset_id": assetID,
			"company_id":      companyID,
			"request_type":    "ASSET_BREAKDOWN",
		}).
		Where(goqu.C("status").NotIn("COMPLETED", "REJECTED")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.Repo.DB.QueryRow(sql, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to execute query: %w", err)
	}

	return count > 0, nil
}

func marshalSpecification(specification map[string]string) ([]byte, error) {
	if specification == nil {
		specification = map[string]string{}
	}
	raw, err := json.Marshal(specification)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal asset specification: %w", err)
	}
	return raw, nil
}

func (r *assetRepository) ListAssets(companyID int, status string) ([]models.Asset, error) {
	conditions := goqu.Ex{"company_id": companyID}
	if status != "" {
		conditions["status"] = status
	}

	var flats []models.FlatAssetRecord
	query := r.Repo.GoquDBWrapper.
		From("assets").
		Select(assetColumns...).
		Where(conditions).
		Order(goqu.I("updated_at").Desc())

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	assets := make([]models.Asset, 0, len(flats))
	for i := range flats {
		asset, err := flats[i].TransformToAsset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, nil
}
