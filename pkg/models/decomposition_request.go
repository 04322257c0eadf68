package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
)

// PlannedComponent is one line of a decomposition plan. For breakdown
// requests it describes a part to materialize; for assembly requests it
// references stocked parts to consume. Category arrives raw and is
// normalized at the ledger boundary, never stored as-is.
type PlannedComponent struct {
	Category      string            `json:"category"`
	PartNumber    string            `json:"part_number,omitempty"`
	Name          string            `json:"name"`
	Quantity      int               `json:"quantity"`
	Specification map[string]string `json:"specification,omitempty"`
	UnitCost      decimal.Decimal   `json:"unit_cost"`
}

// AssetPlan describes the asset an assembly request will create.
type AssetPlan struct {
	AssetTag      string            `json:"asset_tag"`
	Name          string            `json:"name"`
	CategoryID    int               `json:"category_id"`
	Specification map[string]string `json:"specification,omitempty"`
}

type DecompositionRequest struct {
	ID             int                    `json:"id"`
	RequestID      string                 `json:"request_id"`
	Type           metadata.RequestType   `json:"type"`
	Status         metadata.RequestStatus `json:"status"`
	SourceAssetID  *int                   `json:"source_asset_id,omitempty"`
	CreatedAssetID *int                   `json:"created_asset_id,omitempty"`
	Components     []PlannedComponent     `json:"components"`
	TargetAsset    *AssetPlan             `json:"target_asset,omitempty"`
	RequestedBy    int                    `json:"requested_by"`
	ApprovedBy     *int                   `json:"approved_by,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	CompanyID      int                    `json:"company_id"`
	CreatedAt      time.Time              `json:"created_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

func (r *DecompositionRequest) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "decomposition_request",
		CompanyID:    r.CompanyID,
	}
}

type FlatDecompositionRequest struct {
	ID             int        `db:"id"`
	RequestID      string     `db:"request_id"`
	Type           string     `db:"request_type"`
	Status         string     `db:"status"`
	SourceAssetID  *int       `db:"source_asset_id"`
	CreatedAssetID *int       `db:"created_asset_id"`
	Components     []byte     `db:"components"`
	TargetAsset    []byte     `db:"target_asset"`
	RequestedBy    int        `db:"requested_by"`
	ApprovedBy     *int       `db:"approved_by"`
	Reason         string     `db:"reason"`
	CompanyID      int        `db:"company_id"`
	CreatedAt      time.Time  `db:"created_at"`
	CompletedAt    *time.Time `db:"completed_at"`
}

func (fr *FlatDecompositionRequest) TransformToRequest() (DecompositionRequest, error) {
	var components []PlannedComponent
	if len(fr.Components) > 0 {
		if err := json.Unmarshal(fr.Components, &components); err != nil {
			return DecompositionRequest{}, fmt.Errorf("failed to unmarshal planned components: %w", err)
		}
	}

	var targetAsset *AssetPlan
	if len(fr.TargetAsset) > 0 {
		targetAsset = &AssetPlan{}
		if err := json.Unmarshal(fr.TargetAsset, targetAsset); err != nil {
			return DecompositionRequest{}, fmt.Errorf("failed to unmarshal target asset plan: %w", err)
		}
	}

	requestType, err := metadata.NewRequestType(fr.Type)
	if err != nil {
		return DecompositionRequest{}, err
	}

	status, err := metadata.NewRequestStatus(fr.Status)
	if err != nil {
		return DecompositionRequest{}, err
	}

	return DecompositionRequest{
		ID:             fr.ID,
		RequestID:      fr.RequestID,
		Type:           requestType,
		Status:         status,
		SourceAssetID:  fr.SourceAssetID,
		CreatedAssetID: fr.CreatedAssetID,
		Components:     components,
		TargetAsset:    targetAsset,
		RequestedBy:    fr.RequestedBy,
		ApprovedBy:     fr.ApprovedBy,
		Reason:         fr.Reason,
		CompanyID:      fr.CompanyID,
		CreatedAt:      fr.CreatedAt,
		CompletedAt:    fr.CompletedAt,
	}, nil
}

type CreateDecompositionRequest struct {
	Type          string             `json:"type" binding:"required"`
	SourceAssetID *int               `json:"source_asset_id"`
	Components    []PlannedComponent `json:"components" binding:"required"`
	TargetAsset   *AssetPlan         `json:"target_asset"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}
