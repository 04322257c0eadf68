package spareparts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// ExtractedPartRecord is a normalized, validated ledger entry ready for the
// write path. Category is already an enum member here; raw values never
// reach this struct.
type ExtractedPartRecord struct {
	PartID        string
	PartNumber    string
	Name          string
	Category      category.SparePartCategory
	Quantity      int
	UnitCost      decimal.Decimal
	Compatibility map[string]string
	SourceAssetID *int
}

type LedgerRepository interface {
	GetPart(companyID, partID int) (*models.SparePart, error)
	GetPartByNumber(companyID int, partNumber string) (*models.SparePart, error)
	GetPartsByCategory(companyID int, cat category.SparePartCategory) ([]models.SparePart, error)
	ListParts(companyID int) ([]models.SparePart, error)
	ListLowStock(companyID int) ([]models.SparePart, error)
	UpsertExtractedPart(tx *goqu.TxDatabase, companyID int, record ExtractedPartRecord) (*models.SparePart, error)
	DecrementStock(tx *goqu.TxDatabase, companyID int, partNumber string, quantity int) error
	UpdateThresholds(companyID, partID int, req models.ThresholdRequest) error
}

type ledgerRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *ledgerRepository {
	return &ledgerRepository{Repo: r}
}

var partColumns = []interface{}{
	"id", "part_id", "part_number", "name", "category", "stock_level",
	"min_stock", "max_stock", "reorder_point", "unit_cost", "compatibility",
	"source_asset_id", "company_id", "created_at", "updated_at",
}

func (r *ledgerRepository) GetPart(companyID, partID int) (*models.SparePart, error) {
	return r.getPartBy(goqu.Ex{"id": partID, "company_id": companyID}, fmt.Sprintf("spare part %d", partID))
}

func (r *ledgerRepository) GetPartByNumber(companyID int, partNumber string) (*models.SparePart, error) {
	return r.getPartBy(goqu.Ex{"part_number": partNumber, "company_id": companyID}, fmt.Sprintf("spare part %s", partNumber))
}

func (r *ledgerRepository) getPartBy(conditions goqu.Ex, label string) (*models.SparePart, error) {
	var flat models.FlatSparePartRecord

	query := r.Repo.GoquDBWrapper.
		From("spare_parts").
		Select(partColumns...).
		Where(conditions)

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", label, custom_error.ErrNotFound)
	}

	part, err := flat.TransformToSparePart()
	if err != nil {
		return nil, err
	}

	return &part, nil
}

func (r *ledgerRepository) GetPartsByCategory(companyID int, cat category.SparePartCategory) ([]models.SparePart, error) {
	return r.scanParts(goqu.Ex{"company_id": companyID, "category": cat.String()})
}

func (r *ledgerRepository) ListParts(companyID int) ([]models.SparePart, error) {
	return r.scanParts(goqu.Ex{"company_id": companyID})
}

// ListLowStock returns parts at or below their reorder point.
func (r *ledgerRepository) ListLowStock(companyID int) ([]models.SparePart, error) {
	var flats []models.FlatSparePartRecord

	query := r.Repo.GoquDBWrapper.
		From("spare_parts").
		Select(partColumns...).
		Where(goqu.Ex{"company_id": companyID}).
		Where(goqu.C("stock_level").Lte(goqu.C("reorder_point"))).
		Order(goqu.I("stock_level").Asc())

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return transformParts(flats)
}

func (r *ledgerRepository) scanParts(conditions goqu.Ex) ([]models.SparePart, error) {
	var flats []models.FlatSparePartRecord

	query := r.Repo.GoquDBWrapper.
		From("spare_parts").
		Select(partColumns...).
		Where(conditions).
		Order(goqu.I("part_number").Asc())

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return transformParts(flats)
}

func transformParts(flats []models.FlatSparePartRecord) ([]models.SparePart, error) {
	parts := make([]models.SparePart, 0, len(flats))
	for i := range flats {
		part, err := flats[i].TransformToSparePart()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// UpsertExtractedPart increments stock on the existing part with the same
// part number, or inserts a new row. The conflict update is guarded by
// category: a part number reused under a different category is rejected
// rather than silently merged.
func (r *ledgerRepository) UpsertExtractedPart(tx *goqu.TxDatabase, companyID int, record ExtractedPartRecord) (*models.SparePart, error) {
	compatibility, err := marshalCompatibility(record.Compatibility)
	if err != nil {
		return nil, err
	}

	query := tx.Insert("spare_parts").
		Rows(goqu.Record{
			"part_id":         record.PartID,
			"part_number":     record.PartNumber,
			"name":            record.Name,
			"category":        record.Category.String(),
			"stock_level":     record.Quantity,
			"min_stock":       0,
			"max_stock":       0,
			"reorder_point":   0,
			"unit_cost":       record.UnitCost,
			"compatibility":   compatibility,
			"source_asset_id": record.SourceAssetID,
			"company_id":      companyID,
		}).
		OnConflict(
			goqu.DoUpdate(
				"company_id, part_number",
				goqu.Record{
					"stock_level": goqu.L("spare_parts.stock_level + EXCLUDED.stock_level"),
					"updated_at":  time.Now().UTC(),
				},
			).Where(goqu.I("spare_parts.category").Eq(record.Category.String())),
		).
		Returning(partColumns...)

	var flat models.FlatSparePartRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert spare part %s: %w", record.PartNumber, err)
	}
	if !found {
		// conflict row exists but the category guard filtered the update
		return nil, fmt.Errorf("part number %s already stocked under a different category", record.PartNumber)
	}

	part, err := flat.TransformToSparePart()
	if err != nil {
		return nil, err
	}

	return &part, nil
}

// DecrementStock lowers stock with a floor guard. Zero rows affected with an
// existing part means the requested quantity exceeded the stock; the caller's
// transaction rollback undoes decrements already applied to other lines.
func (r *ledgerRepository) DecrementStock(tx *goqu.TxDatabase, companyID int, partNumber string, quantity int) error {
	updateResult, err := tx.Update("spare_parts").
		Set(goqu.Record{
			"stock_level": goqu.L("stock_level - ?", quantity),
			"updated_at":  time.Now().UTC(),
		}).
		Where(goqu.Ex{
			"part_number": partNumber,
			"company_id":  companyID,
		}).
		Where(goqu.C("stock_level").Gte(quantity)).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to decrement stock for part %s: %w", partNumber, err)
	}

	rowsAffected, err := updateResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if _, err := tx.ScanVal(&exists,
			`SELECT EXISTS (SELECT 1 FROM spare_parts WHERE part_number = $1 AND company_id = $2)`,
			partNumber, companyID); err != nil {
			return fmt.Errorf("failed to check spare part existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("spare part %s: %w", partNumber, custom_error.ErrNotFound)
		}
		return fmt.Errorf("spare part %s: %w", partNumber, custom_error.ErrInsufficientStock)
	}

	return nil
}

func (r *ledgerRepository) UpdateThresholds(companyID, partID int, req models.ThresholdRequest) error {
	query := r.Repo.GoquDBWrapper.
		Update("spare_parts").
		Set(goqu.Record{
			"min_stock":     req.MinStock,
			"max_stock":     req.MaxStock,
			"reorder_point": req.ReorderPoint,
			"updated_at":    time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": partID, "company_id": companyID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update thresholds for part %d: %w", partID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("spare part %d: %w", partID, custom_error.ErrNotFound)
	}

	return nil
}

func marshalCompatibility(compatibility map[string]string) ([]byte, error) {
	if compatibility == nil {
		compatibility = map[string]string{}
	}
	raw, err := json.Marshal(compatibility)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal part compatibility: %w", err)
	}
	return raw, nil
}
