package decomposition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// AssetRegistry is the slice of the asset service the engine needs inside
// its transaction.
type AssetRegistry interface {
	GetAssetForUpdate(tx *goqu.TxDatabase, companyID, assetID int) (*models.Asset, error)
	MarkRetiredWithProvenance(tx *goqu.TxDatabase, companyID, assetID int, note string) error
	CreateAssembledAsset(tx *goqu.TxDatabase, companyID int, plan models.AssetPlan, note string) (int, error)
}

// InventoryLedger is the tx-scoped slice of the spare part service.
type InventoryLedger interface {
	CreateFromExtraction(tx *goqu.TxDatabase, companyID, sourceAssetID int, requestID string, components []models.PlannedComponent) ([]models.SparePart, []string, error)
	ReserveForAssembly(tx *goqu.TxDatabase, companyID int, lines []models.PlannedComponent) error
}

// RequestStore is the tx-scoped slice of the request repository.
type RequestStore interface {
	MarkInProgress(tx *goqu.TxDatabase, companyID int, requestID string) (bool, error)
	Complete(tx *goqu.TxDatabase, companyID int, requestID string, createdAssetID *int) error
}

type ExecutionResult struct {
	RequestID      string             `json:"request_id"`
	Parts          []models.SparePart `json:"parts,omitempty"`
	CreatedAssetID *int               `json:"created_asset_id,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// ExtractionEngine executes approved requests. It is the only component that
// mutates asset and spare part state in one operation, and it always does so
// inside a single repeatable-read transaction: either the asset retires, the
// parts stock, and the request completes together, or none of it happens.
type ExtractionEngine struct {
	requests RequestStore
	registry AssetRegistry
	ledger   InventoryLedger
	auditLog *auditlog.Auditlog
	logger   *zap.Logger
	withTx   func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error
}

func NewExtractionEngine(repo *repository.Repository, requests RequestStore, registry AssetRegistry, ledger InventoryLedger, auditLog *auditlog.Auditlog, logger *zap.Logger) *ExtractionEngine {
	return &ExtractionEngine{
		requests: requests,
		registry: registry,
		ledger:   ledger,
		auditLog: auditLog,
		logger:   logger,
		withTx: func(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(ctx, repo.GoquDBWrapper, repository.RepeatableRead, fn)
		},
	}
}

// Execute runs an approved breakdown request. The claim out of APPROVED is a
// compare-and-swap; a concurrent executor losing the race gets
// ErrConcurrentModification and may safely retry after re-fetching.
func (e *ExtractionEngine) Execute(ctx context.Context, request *models.DecompositionRequest) (*ExecutionResult, error) {
	if request.SourceAssetID == nil {
		return nil, fmt.Errorf("breakdown request %s has no source asset", request.RequestID)
	}

	var result ExecutionResult
	err := e.withTx(ctx, func(tx *goqu.TxDatabase) error {
		claimed, err := e.requests.MarkInProgress(tx, request.CompanyID, request.RequestID)
		if err != nil {
			return err
		}
		if !claimed {
			return fmt.Errorf("request %s: %w", request.RequestID, custom_error.ErrConcurrentModification)
		}

		// Approval may be stale: the asset can have changed hands since.
		asset, err := e.registry.GetAssetForUpdate(tx, request.CompanyID, *request.SourceAssetID)
		if err != nil {
			return err
		}
		if !asset.IsActive || asset.Status.IsTerminal() {
			return fmt.Errorf("asset %d is no longer active: %w", asset.ID, custom_error.ErrAssetNotEligible)
		}

		parts, warnings, err := e.ledger.CreateFromExtraction(tx, request.CompanyID, asset.ID, request.RequestID, request.Components)
		if err != nil {
			return err
		}

		note := metadata.NewProvenance(metadata.ActionDecomposed, request.RequestID, time.Now()).Note()
		if err := e.registry.MarkRetiredWithProvenance(tx, request.CompanyID, asset.ID, note); err != nil {
			return err
		}

		if err := e.requests.Complete(tx, request.CompanyID, request.RequestID, nil); err != nil {
			return err
		}

		result = ExecutionResult{
			RequestID: request.RequestID,
			Parts:     parts,
			Warnings:  warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("decomposition executed",
		zap.String("request_id", request.RequestID),
		zap.Int("source_asset_id", *request.SourceAssetID),
		zap.Int("parts", len(result.Parts)),
	)

	go e.auditLog.Log(
		"execute_breakdown",
		map[string]interface{}{
			"request_id":      request.RequestID,
			"source_asset_id": *request.SourceAssetID,
			"parts_created":   len(result.Parts),
			"warnings":        result.Warnings,
		},
		request,
	)

	return &result, nil
}

// Assemble runs an approved assembly request: reserve the listed parts,
// create the new asset with provenance, complete the request. All-or-nothing
// under the same transaction discipline as Execute.
func (e *ExtractionEngine) Assemble(ctx context.Context, request *models.DecompositionRequest) (*ExecutionResult, error) {
	if request.TargetAsset == nil {
		return nil, fmt.Errorf("assembly request %s has no target asset plan", request.RequestID)
	}

	var result ExecutionResult
	err := e.withTx(ctx, func(tx *goqu.TxDatabase) error {
		claimed, err := e.requests.MarkInProgress(tx, request.CompanyID, request.RequestID)
		if err != nil {
			return err
		}
		if !claimed {
			return fmt.Errorf("request %s: %w", request.RequestID, custom_error.ErrConcurrentModification)
		}

		if err := e.ledger.ReserveForAssembly(tx, request.CompanyID, request.Components); err != nil {
			return err
		}

		note := assemblyProvenanceNote(request)
		assetID, err := e.registry.CreateAssembledAsset(tx, request.CompanyID, *request.TargetAsset, note)
		if err != nil {
			return err
		}

		if err := e.requests.Complete(tx, request.CompanyID, request.RequestID, &assetID); err != nil {
			return err
		}

		result = ExecutionResult{
			RequestID:      request.RequestID,
			CreatedAssetID: &assetID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("assembly executed",
		zap.String("request_id", request.RequestID),
		zap.Intp("created_asset_id", result.CreatedAssetID),
	)

	go e.auditLog.Log(
		"execute_assembly",
		map[string]interface{}{
			"request_id":       request.RequestID,
			"created_asset_id": result.CreatedAssetID,
		},
		request,
	)

	return &result, nil
}

// assemblyProvenanceNote records which stocked parts the new asset consumed.
func assemblyProvenanceNote(request *models.DecompositionRequest) string {
	note := metadata.NewProvenance(metadata.ActionAssembled, request.RequestID, time.Now()).Note()

	consumed := make([]string, 0, len(request.Components))
	for _, line := range request.Components {
		consumed = append(consumed, fmt.Sprintf("%s x%d", line.PartNumber, line.Quantity))
	}
	if len(consumed) == 0 {
		return note
	}

	return note + " [" + strings.Join(consumed, ", ") + "]"
}
