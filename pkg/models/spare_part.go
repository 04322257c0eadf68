package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
)

type SparePart struct {
	ID            int                        `json:"id"`
	PartID        string                     `json:"part_id"`
	PartNumber    string                     `json:"part_number"`
	Name          string                     `json:"name"`
	Category      category.SparePartCategory `json:"category"`
	StockLevel    int                        `json:"stock_level"`
	MinStock      int                        `json:"min_stock"`
	MaxStock      int                        `json:"max_stock"`
	ReorderPoint  int                        `json:"reorder_point"`
	UnitCost      decimal.Decimal            `json:"unit_cost"`
	Compatibility map[string]string          `json:"compatibility,omitempty"`
	SourceAssetID *int                       `json:"source_asset_id,omitempty"`
	CompanyID     int                        `json:"company_id"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// StockValue is the ledger valuation of the current stock of this part.
func (p *SparePart) StockValue() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.StockLevel)))
}

// MarshalJSON adds the computed stock valuation to every serialized part, so
// list and read endpoints report it without a separate column.
func (p SparePart) MarshalJSON() ([]byte, error) {
	type alias SparePart
	return json.Marshal(struct {
		alias
		StockValue decimal.Decimal `json:"stock_value"`
	}{
		alias:      alias(p),
		StockValue: p.StockValue(),
	})
}

func (p *SparePart) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "spare_part",
		CompanyID:    p.CompanyID,
	}
}

type FlatSparePartRecord struct {
	ID            int             `db:"id"`
	PartID        string          `db:"part_id"`
	PartNumber    string          `db:"part_number"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	StockLevel    int             `db:"stock_level"`
	MinStock      int             `db:"min_stock"`
	MaxStock      int             `db:"max_stock"`
	ReorderPoint  int             `db:"reorder_point"`
	UnitCost      decimal.Decimal `db:"unit_cost"`
	Compatibility []byte          `db:"compatibility"`
	SourceAssetID *int            `db:"source_asset_id"`
	CompanyID     int             `db:"company_id"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (fp *FlatSparePartRecord) TransformToSparePart() (SparePart, error) {
	var compatibility map[string]string
	if len(fp.Compatibility) > 0 {
		if err := json.Unmarshal(fp.Compatibility, &compatibility); err != nil {
			return SparePart{}, fmt.Errorf("failed to unmarshal part compatibility: %w", err)
		}
	}

	cat, err := category.New(fp.Category)
	if err != nil {
		// A raw value slipped past the write boundary; surface it instead of
		// silently passing it along.
		return SparePart{}, fmt.Errorf("spare part %d holds invalid category: %w", fp.ID, err)
	}

	return SparePart{
		ID:            fp.ID,
		PartID:        fp.PartID,
		PartNumber:    fp.PartNumber,
		Name:          fp.Name,
		Category:      cat,
		StockLevel:    fp.StockLevel,
		MinStock:      fp.MinStock,
		MaxStock:      fp.MaxStock,
		ReorderPoint:  fp.ReorderPoint,
		UnitCost:      fp.UnitCost,
		Compatibility: compatibility,
		SourceAssetID: fp.SourceAssetID,
		CompanyID:     fp.CompanyID,
		CreatedAt:     fp.CreatedAt,
		UpdatedAt:     fp.UpdatedAt,
	}, nil
}

type SparePartRequest struct {
	PartNumber    string            `json:"part_number" binding:"required"`
	Name          string            `json:"name" binding:"required"`
	Category      string            `json:"category" binding:"required"`
	StockLevel    int               `json:"stock_level"`
	MinStock      int               `json:"min_stock"`
	MaxStock      int               `json:"max_stock"`
	ReorderPoint  int               `json:"reorder_point"`
	UnitCost      decimal.Decimal   `json:"unit_cost"`
	Compatibility map[string]string `json:"compatibility"`
}

type ThresholdRequest struct {
	MinStock     int `json:"min_stock" binding:"min=0"`
	MaxStock     int `json:"max_stock" binding:"min=0"`
	ReorderPoint int `json:"reorder_point" binding:"min=0"`
}
