package decomposition

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

// inFlightConstraint is the partial unique index guaranteeing at most one
// non-terminal breakdown request per source asset (see migrations).
const inFlightConstraint = "uq_decomposition_requests_in_flight"

type RequestRepository interface {
	InsertRequest(companyID int, record InsertRequestRecord) (int, error)
	GetRequest(companyID int, requestID string) (*models.DecompositionRequest, error)
	ListRequests(companyID int, status string) ([]models.DecompositionRequest, error)
	Approve(companyID int, requestID string, approver int) (bool, error)
	Reject(companyID int, requestID string, reason string) (bool, error)
	MarkInProgress(tx *goqu.TxDatabase, companyID int, requestID string) (bool, error)
	Complete(tx *goqu.TxDatabase, companyID int, requestID string, createdAssetID *int) error
}

type InsertRequestRecord struct {
	RequestID     string
	Type          string
	SourceAssetID *int
	Components    []models.PlannedComponent
	TargetAsset   *models.AssetPlan
	RequestedBy   int
}

type requestRepository struct {
	Repo *repository.Repository
}

func NewRepository(r *repository.Repository) *requestRepository {
	return &requestRepository{Repo: r}
}

var requestColumns = []interface{}{
	"id", "request_id", "request_type", "status", "source_asset_id",
	"created_asset_id", "components", "target_asset", "requested_by",
	"approved_by", "reason", "company_id", "created_at", "completed_at",
}

func (r *requestRepository) InsertRequest(companyID int, record InsertRequestRecord) (int, error) {
	components, err := json.Marshal(record.Components)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal planned components: %w", err)
	}

	row := goqu.Record{
		"request_id":      record.RequestID,
		"request_type":    record.Type,
		"status":          "PENDING",
		"source_asset_id": record.SourceAssetID,
		"components":      components,
		"requested_by":    record.RequestedBy,
		"reason":          "",
		"company_id":      companyID,
	}

	if record.TargetAsset != nil {
		targetAsset, err := json.Marshal(record.TargetAsset)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal target asset plan: %w", err)
		}
		row["target_asset"] = targetAsset
	}

	query := r.Repo.GoquDBWrapper.Insert("decomposition_requests").
		Rows(row).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == inFlightConstraint {
				return 0, fmt.Errorf("asset %v: %w", record.SourceAssetID, custom_error.ErrDuplicateInFlightRequest)
			}
			return 0, custom_error.WrapDBError("Duplicate decomposition request", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert decomposition request: %w", err)
	}

	return id, nil
}

func (r *requestRepository) GetRequest(companyID int, requestID string) (*models.DecompositionRequest, error) {
	var flat models.FlatDecompositionRequest

	query := r.Repo.GoquDBWrapper.
		From("decomposition_requests").
		Select(requestColumns...).
		Where(goqu.Ex{"request_id": requestID, "company_id": companyID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("decomposition request %s: %w", requestID, custom_error.ErrNotFound)
	}

	request, err := flat.TransformToRequest()
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *requestRepository) ListRequests(companyID int, status string) ([]models.DecompositionRequest, error) {
	conditions := goqu.Ex{"company_id": companyID}
	if status != "" {
		conditions["status"] = status
	}

	var flats []models.FlatDecompositionRequest
	query := r.Repo.GoquDBWrapper.
		From("decomposition_requests").
		Select(requestColumns...).
		Where(conditions).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	requests := make([]models.DecompositionRequest, 0, len(flats))
	for i := range flats {
		request, err := flats[i].TransformToRequest()
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// Approve moves PENDING to APPROVED. A false return means the request was
// not in PENDING at update time.
func (r *requestRepository) Approve(companyID int, requestID string, approver int) (bool, error) {
	query := r.Repo.GoquDBWrapper.
		Update("decomposition_requests").
		Set(goqu.Record{
			"status":      "APPROVED",
			"approved_by": approver,
		}).
		Where(goqu.Ex{
			"request_id": requestID,
			"company_id": companyID,
			"status":     "PENDING",
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to approve request %s: %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *requestRepository) Reject(companyID int, requestID string, reason string) (bool, error) {
	query := r.Repo.GoquDBWrapper.
		Update("decomposition_requests").
		Set(goqu.Record{
			"status":       "REJECTED",
			"reason":       reason,
			"completed_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{
			"request_id": requestID,
			"company_id": companyID,
		}).
		Where(goqu.C("status").In("PENDING", "APPROVED"))

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to reject request %s: %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// MarkInProgress is the compare-and-swap out of APPROVED. Two executors
// racing on the same request both run this update; row locking serializes
// them and the loser sees zero rows affected because the status already
// moved. It runs inside the execution transaction, so an aborted execution
// rolls the status back to APPROVED.
func (r *requestRepository) MarkInProgress(tx *goqu.TxDatabase, companyID int, requestID string) (bool, error) {
	query := tx.Update("decomposition_requests").
		Set(goqu.Record{"status": "IN_PROGRESS"}).
		Where(goqu.Ex{
			"request_id": requestID,
			"company_id": companyID,
			"status":     "APPROVED",
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to claim request %s: %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *requestRepository) Complete(tx *goqu.TxDatabase, companyID int, requestID string, createdAssetID *int) error {
	record := goqu.Record{
		"status":       "COMPLETED",
		"completed_at": time.Now().UTC(),
	}
	if createdAssetID != nil {
		record["created_asset_id"] = *createdAssetID
	}

	query := tx.Update("decomposition_requests").
		Set(record).
		Where(goqu.Ex{
			"request_id": requestID,
			"company_id": companyID,
			"status":     "IN_PROGRESS",
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to complete request %s: %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("request %s left IN_PROGRESS unexpectedly: %w", requestID, custom_error.ErrConcurrentModification)
	}

	return nil
}
