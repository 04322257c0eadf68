package spareparts

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// LedgerService owns spare part stock. Category normalization happens here,
// on every write path, so only enum literals ever reach the storage layer.
type LedgerService struct {
	ledgerRepo LedgerRepository
	normalizer *category.Normalizer
	auditLog   *auditlog.Auditlog
	logger     *zap.Logger
	withTx     func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error
}

func NewLedgerService(repo *repository.Repository, ledgerRepo LedgerRepository, normalizer *category.Normalizer, auditLog *auditlog.Auditlog, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		normalizer: normalizer,
		auditLog:   auditLog,
		logger:     logger,
		withTx: func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(ctx, repo.GoquDBWrapper, nil, fn)
		},
	}
}

// CreateFromExtraction materializes ledger entries for an executed breakdown
// request. Runs inside the extraction transaction. Returned warnings list the
// entries whose category could not be resolved and was defaulted.
func (s *LedgerService) CreateFromExtraction(tx *goqu.TxDatabase, companyID, sourceAssetID int, requestID string, components []models.PlannedComponent) ([]models.SparePart, []string, error) {
	records := make([]ExtractedPartRecord, 0, len(components))
	var warnings []string

	for i, component := range components {
		if component.Quantity <= 0 {
			return nil, nil, fmt.Errorf("component %d (%s): quantity must be positive, got %d",
				i, component.Name, component.Quantity)
		}

		cat, err := s.normalizer.Normalize(component.Category)
		if err != nil {
			if !errors.Is(err, category.ErrCategoryAmbiguous) {
				return nil, nil, err
			}
			warning := fmt.Sprintf("component %q: category %q is ambiguous, stored as %s; flag for manual review",
				component.Name, component.Category, cat)
			warnings = append(warnings, warning)
			s.logger.Warn("ambiguous spare part category",
				zap.String("request_id", requestID),
				zap.String("component", component.Name),
				zap.String("raw_category", component.Category),
			)
		}

		partNumber := component.PartNumber
		if partNumber == "" {
			partNumber = generatePartNumber(cat)
		}

		records = append(records, ExtractedPartRecord{
			PartID:        uuid.NewString(),
			PartNumber:    partNumber,
			Name:          component.Name,
			Category:      cat,
			Quantity:      component.Quantity,
			UnitCost:      component.UnitCost,
			Compatibility: component.Specification,
			SourceAssetID: &sourceAssetID,
		})
	}

	parts := make([]models.SparePart, 0, len(records))
	for _, record := range records {
		part, err := s.ledgerRepo.UpsertExtractedPart(tx, companyID, record)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, *part)
	}

	return parts, warnings, nil
}

// ReserveForAssembly decrements stock for every line or none: a failed line
// returns an error and the enclosing transaction rolls back decrements
// already applied to the other lines.
func (s *LedgerService) ReserveForAssembly(tx *goqu.TxDatabase, companyID int, lines []models.PlannedComponent) error {
	if len(lines) == 0 {
		return fmt.Errorf("assembly requires at least one component line")
	}

	for i, line := range lines {
		if line.PartNumber == "" {
			return fmt.Errorf("component line %d: part number is required", i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("component line %d (%s): quantity must be positive, got %d",
				i, line.PartNumber, line.Quantity)
		}
	}

	for _, line := range lines {
		if err := s.ledgerRepo.DecrementStock(tx, companyID, line.PartNumber, line.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// ReserveStock is the standalone reservation entry point for installs and
// transfers; it wraps ReserveForAssembly in its own transaction.
func (s *LedgerService) ReserveStock(ctx context.Context, companyID int, lines []models.PlannedComponent) error {
	return s.withTx(ctx, func(tx *goqu.TxDatabase) error {
		return s.ReserveForAssembly(tx, companyID, lines)
	})
}

// CreateSparePart is direct intake outside of decomposition. The category
// boundary applies here too.
func (s *LedgerService) CreateSparePart(ctx context.Context, companyID int, req models.SparePartRequest) (*models.SparePart, []string, error) {
	if req.StockLevel < 0 {
		return nil, nil, fmt.Errorf("stock level must not be negative, got %d", req.StockLevel)
	}

	var warnings []string
	cat, err := s.normalizer.Normalize(req.Category)
	if err != nil {
		if !errors.Is(err, category.ErrCategoryAmbiguous) {
			return nil, nil, err
		}
		warnings = append(warnings, fmt.Sprintf("category %q is ambiguous, stored as %s", req.Category, cat))
	}

	record := ExtractedPartRecord{
		PartID:        uuid.NewString(),
		PartNumber:    req.PartNumber,
		Name:          req.Name,
		Category:      cat,
		Quantity:      req.StockLevel,
		UnitCost:      req.UnitCost,
		Compatibility: req.Compatibility,
	}

	var part *models.SparePart
	err = s.withTx(ctx, func(tx *goqu.TxDatabase) error {
		var txErr error
		part, txErr = s.ledgerRepo.UpsertExtractedPart(tx, companyID, record)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"part_number": part.PartNumber,
			"category":    part.Category,
			"stock_level": part.StockLevel,
		},
		part,
	)

	return part, warnings, nil
}

func (s *LedgerService) GetPart(companyID, partID int) (*models.SparePart, error) {
	return s.ledgerRepo.GetPart(companyID, partID)
}

// GetPartByNumber resolves a part by its company-scoped part number, the
// identifier assembly plans reference.
func (s *LedgerService) GetPartByNumber(companyID int, partNumber string) (*models.SparePart, error) {
	return s.ledgerRepo.GetPartByNumber(companyID, partNumber)
}

func (s *LedgerService) ListParts(companyID int) ([]models.SparePart, error) {
	return s.ledgerRepo.ListParts(companyID)
}

// GetByCategory accepts only enum literals; query accessors do not take raw
// legacy values.
func (s *LedgerService) GetByCategory(companyID int, rawCategory string) ([]models.SparePart, error) {
	cat, err := category.New(rawCategory)
	if err != nil {
		return nil, err
	}
	return s.ledgerRepo.GetPartsByCategory(companyID, cat)
}

func (s *LedgerService) LowStockReport(companyID int) ([]models.SparePart, error) {
	return s.ledgerRepo.ListLowStock(companyID)
}

func (s *LedgerService) AdjustThresholds(companyID, partID int, req models.ThresholdRequest) error {
	if req.MaxStock > 0 && req.MinStock > req.MaxStock {
		return fmt.Errorf("min stock %d exceeds max stock %d", req.MinStock, req.MaxStock)
	}
	return s.ledgerRepo.UpdateThresholds(companyID, partID, req)
}

func generatePartNumber(cat category.SparePartCategory) string {
	return fmt.Sprintf("PN-%s-%s", cat.String()[:2], uuid.NewString()[:8])
}
