package decomposition

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/auditlog"
	custom_error "github.com/anggaSaputra16/management-assets-sub004/pkg/errors"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// EligibilityChecker is the slice of the asset service the request manager
// consults before accepting a new breakdown request.
type EligibilityChecker interface {
	GetAsset(companyID, assetID int) (*models.Asset, error)
	HasInFlightBreakdown(companyID, assetID int) (bool, error)
}

// Executor runs approved requests. Implemented by ExtractionEngine.
type Executor interface {
	Execute(ctx context.Context, request *models.DecompositionRequest) (*ExecutionResult, error)
	Assemble(ctx context.Context, request *models.DecompositionRequest) (*ExecutionResult, error)
}

// RequestService owns the approval workflow of decomposition requests.
// It never mutates asset or spare part state itself; execution is delegated
// to the engine.
type RequestService struct {
	requestRepo RequestRepository
	registry    EligibilityChecker
	engine      Executor
	auditLog    *auditlog.Auditlog
	logger      *zap.Logger
}

func NewRequestService(requestRepo RequestRepository, registry EligibilityChecker, engine Executor, auditLog *auditlog.Auditlog, logger *zap.Logger) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		registry:    registry,
		engine:      engine,
		auditLog:    auditLog,
		logger:      logger,
	}
}

// Create validates and persists a new request in PENDING. All validation
// failures short-circuit before any row is written; the partial unique index
// on in-flight breakdowns backstops the duplicate check under races.
func (s *RequestService) Create(ctx context.Context, companyID, requestedBy int, req models.CreateDecompositionRequest) (*models.DecompositionRequest, error) {
	requestType, err := metadata.NewRequestType(req.Type)
	if err != nil {
		return nil, err
	}

	if len(req.Components) == 0 {
		return nil, fmt.Errorf("a decomposition plan needs at least one component")
	}
	for i, component := range req.Components {
		if component.Quantity <= 0 {
			return nil, fmt.Errorf("component %d (%s): quantity must be positive, got %d",
				i, component.Name, component.Quantity)
		}
	}

	switch requestType {
	case metadata.RequestTypeBreakdown:
		if req.SourceAssetID == nil {
			return nil, fmt.Errorf("breakdown request requires a source asset")
		}
		if err := s.checkEligibility(companyID, *req.SourceAssetID); err != nil {
			return nil, err
		}
	case metadata.RequestTypeAssembly:
		if req.TargetAsset == nil {
			return nil, fmt.Errorf("assembly request requires a target asset plan")
		}
		if req.TargetAsset.AssetTag == "" || req.TargetAsset.Name == "" {
			return nil, fmt.Errorf("target asset plan requires an asset tag and a name")
		}
		for i, component := range req.Components {
			if component.PartNumber == "" {
				return nil, fmt.Errorf("component line %d: assembly lines must reference a part number", i)
			}
		}
	}

	record := InsertRequestRecord{
		RequestID:     uuid.NewString(),
		Type:          requestType.String(),
		SourceAssetID: req.SourceAssetID,
		Components:    req.Components,
		TargetAsset:   req.TargetAsset,
		RequestedBy:   requestedBy,
	}

	if _, err := s.requestRepo.InsertRequest(companyID, record); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetRequest(companyID, record.RequestID)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"request_id":      request.RequestID,
			"type":            request.Type,
			"source_asset_id": request.SourceAssetID,
		},
		request,
	)

	return request, nil
}

func (s *RequestService) checkEligibility(companyID, assetID int) error {
	asset, err := s.registry.GetAsset(companyID, assetID)
	if err != nil {
		return err
	}

	if !asset.IsActive || asset.Status.IsTerminal() {
		return fmt.Errorf("asset %d: %w", assetID, custom_error.ErrAssetNotEligible)
	}

	inFlight, err := s.registry.HasInFlightBreakdown(companyID, assetID)
	if err != nil {
		return err
	}
	if inFlight {
		return fmt.Errorf("asset %d: %w", assetID, custom_error.ErrDuplicateInFlightRequest)
	}

	return nil
}

func (s *RequestService) Approve(ctx context.Context, companyID int, requestID string, approver int) (*models.DecompositionRequest, error) {
	updated, err := s.requestRepo.Approve(companyID, requestID, approver)
	if err != nil {
		return nil, err
	}
	if !updated {
		// distinguish a missing request from one past PENDING
		request, err := s.requestRepo.GetRequest(companyID, requestID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, custom_error.ErrInvalidState)
	}

	request, err := s.requestRepo.GetRequest(companyID, requestID)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log("approve", map[string]interface{}{"approved_by": approver}, request)

	return request, nil
}

func (s *RequestService) Reject(ctx context.Context, companyID int, requestID string, reason string) (*models.DecompositionRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("rejection requires a reason")
	}

	updated, err := s.requestRepo.Reject(companyID, requestID, reason)
	if err != nil {
		return nil, err
	}
	if !updated {
		request, err := s.requestRepo.GetRequest(companyID, requestID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("request %s is %s: %w", requestID, request.Status, custom_error.ErrInvalidState)
	}

	request, err := s.requestRepo.GetRequest(companyID, requestID)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log("reject", map[string]interface{}{"reason": reason}, request)

	return request, nil
}

// Execute hands an APPROVED request to the engine. The status pre-check here
// is a cheap short-circuit; the engine's compare-and-swap is what actually
// guards concurrent executors.
func (s *RequestService) Execute(ctx context.Context, companyID int, requestID string) (*ExecutionResult, error) {
	request, err := s.requestRepo.GetRequest(companyID, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != metadata.RequestApproved {
		return nil, fmt.Errorf("request %s is %s, only APPROVED requests can be executed: %w",
			requestID, request.Status, custom_error.ErrInvalidState)
	}

	switch request.Type {
	case metadata.RequestTypeBreakdown:
		return s.engine.Execute(ctx, request)
	case metadata.RequestTypeAssembly:
		return s.engine.Assemble(ctx, request)
	default:
		return nil, fmt.Errorf("unknown request type %s", request.Type)
	}
}

func (s *RequestService) GetRequest(companyID int, requestID string) (*models.DecompositionRequest, error) {
	return s.requestRepo.GetRequest(companyID, requestID)
}

func (s *RequestService) ListRequests(companyID int, status string) ([]models.DecompositionRequest, error) {
	if status != "" {
		if _, err := metadata.NewRequestStatus(status); err != nil {
			return nil, err
		}
	}
	return s.requestRepo.ListRequests(companyID, status)
}
