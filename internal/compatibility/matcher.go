package compatibility

import (
	"fmt"
	"sort"

	"github.com/doug-martin/goqu/v9"

	"github.com/anggaSaputra16/management-assets-sub004/internal/repository"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/category"
	"github.com/anggaSaputra16/management-assets-sub004/pkg/models"
)

// TargetSpec describes what an extracted component needs from a destination
// asset. Attributes are the component's required specification fields;
// MinMatches is the minimum number that must intersect (defaults to 1).
type TargetSpec struct {
	CategoryID int               `json:"category_id"`
	Attributes map[string]string `json:"attributes"`
	MinMatches int               `json:"min_matches"`
}

type PartSpec struct {
	Category   string            `json:"category"`
	Attributes map[string]string `json:"attributes"`
	MinMatches int               `json:"min_matches"`
}

type AssetMatch struct {
	Asset models.Asset `json:"asset"`
	Score int          `json:"score"`
}

type PartMatch struct {
	Part  models.SparePart `json:"part"`
	Score int              `json:"score"`
}

// Matcher answers reuse questions read-only. Results are finite, recomputed
// on every call and never cached.
type Matcher struct {
	Repo *repository.Repository
}

func NewMatcher(r *repository.Repository) *Matcher {
	return &Matcher{Repo: r}
}

var assetColumns = []interface{}{
	"id", "asset_tag", "name", "status", "is_active", "notes",
	"specification", "category_id", "company_id", "created_at", "updated_at",
}

// FindCompatibleTargets returns available assets whose declared
// specification intersects the component's required fields, best match
// first, most recently updated first on ties.
func (m *Matcher) FindCompatibleTargets(companyID int, spec TargetSpec) ([]AssetMatch, error) {
	conditions := goqu.Ex{
		"company_id": companyID,
		"is_active":  true,
		"status":     "AVAILABLE",
	}
	if spec.CategoryID != 0 {
		conditions["category_id"] = spec.CategoryID
	}

	var flats []models.FlatAssetRecord
	query := m.Repo.GoquDBWrapper.
		From("assets").
		Select(assetColumns...).
		Where(conditions)

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

	return rankAssetMatches(assets, spec.Attributes, spec.MinMatches), nil
}

// rankAssetMatches scores candidates against the required attributes, drops
// those below the match floor and orders the rest best score first, most
// recently updated first on ties.
func rankAssetMatches(assets []models.Asset, attributes map[string]string, minMatches int) []AssetMatch {
	if minMatches <= 0 {
		minMatches = 1
	}

	var matches []AssetMatch
	for i := range assets {
		score := ScoreSpecification(attributes, assets[i].Specification)
		if score < minMatches {
			continue
		}
		matches = append(matches, AssetMatch{Asset: assets[i], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Asset.UpdatedAt.After(matches[j].Asset.UpdatedAt)
	})

	return matches
}

var partColumns = []interface{}{
	"id", "part_id", "part_number", "name", "category", "stock_level",
	"min_stock", "max_stock", "reorder_point", "unit_cost", "compatibility",
	"source_asset_id", "company_id", "created_at", "updated_at",
}

// FindCompatibleParts suggests stocked parts for a given requirement, e.g.
// when planning an assembly. Only in-stock parts are candidates.
func (m *Matcher) FindCompatibleParts(companyID int, spec PartSpec) ([]PartMatch, error) {
	conditions := goqu.Ex{"company_id": companyID}
	if spec.Category != "" {
		cat, err := category.New(spec.Category)
		if err != nil {
			return nil, err
		}
		conditions["category"] = cat.String()
	}

	var flats []models.FlatSparePartRecord
	query := m.Repo.GoquDBWrapper.
		From("spare_parts").
		Select(partColumns...).
		Where(conditions).
		Where(goqu.C("stock_level").Gt(0))

	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	parts := make([]models.SparePart, 0, len(flats))
	for i := range flats {
		part, err := flats[i].TransformToSparePart()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	return rankPartMatches(parts, spec.Attributes, spec.MinMatches), nil
}

func rankPartMatches(parts []models.SparePart, attributes map[string]string, minMatches int) []PartMatch {
	if minMatches <= 0 {
		minMatches = 1
	}

	var matches []PartMatch
	for i := range parts {
		score := ScoreSpecification(attributes, parts[i].Compatibility)
		if score < minMatches {
			continue
		}
		matches = append(matches, PartMatch{Part: parts[i], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Part.UpdatedAt.After(matches[j].Part.UpdatedAt)
	})

	return matches
}

// ScoreSpecification counts required fields the candidate declares with the
// same value.
func ScoreSpecification(required, declared map[string]string) int {
	if len(required) == 0 || len(declared) == 0 {
		return 0
	}

	score := 0
	for key, value := range required {
		if declared[key] == value {
			score++
		}
	}
	return score
}
