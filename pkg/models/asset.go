package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/metadata"
)

type Asset struct {
	ID            int                  `json:"id"`
	AssetTag      string               `json:"asset_tag"`
	Name          string               `json:"name"`
	Status        metadata.AssetStatus `json:"status"`
	IsActive      bool                 `json:"is_active"`
	Notes         string               `json:"notes,omitempty"`
	Specification map[string]string    `json:"specification,omitempty"`
	CategoryID    int                  `json:"category_id"`
	CompanyID     int                  `json:"company_id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type FlatAssetRecord struct {
	ID            int       `db:"id"`
	AssetTag      string    `db:"asset_tag"`
	Name          string    `db:"name"`
	Status        string    `db:"status"`
	IsActive      bool      `db:"is_active"`
	Notes         string    `db:"notes"`
	Specification []byte    `db:"specification"`
	CategoryID    int       `db:"category_id"`
	CompanyID     int       `db:"company_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (fa *FlatAssetRecord) TransformToAsset() (Asset, error) {
	var specification map[string]string
	if len(fa.Specification) > 0 {
		if err := json.Unmarshal(fa.Specification, &specification); err != nil {
			return Asset{}, fmt.Errorf("failed to unmarshal asset specification: %w", err)
		}
	}

	status, err := metadata.NewAssetStatus(fa.Status)
	if err != nil {
		return Asset{}, err
	}

	return Asset{
		ID:            fa.ID,
		AssetTag:      fa.AssetTag,
		Name:          fa.Name,
		Status:        status,
		IsActive:      fa.IsActive,
		Notes:         fa.Notes,
		Specification: specification,
		CategoryID:    fa.CategoryID,
		CompanyID:     fa.CompanyID,
		CreatedAt:     fa.CreatedAt,
		UpdatedAt:     fa.UpdatedAt,
	}, nil
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
		CompanyID:    a.CompanyID,
	}
}

type AssetRequest struct {
	AssetTag      string            `json:"asset_tag" binding:"required"`
	Name          string            `json:"name" binding:"required"`
	CategoryID    int               `json:"category_id" binding:"required"`
	Specification map[string]string `json:"specification"`
	Notes         string            `json:"notes"`
}
