package metadata

import "fmt"

// AssetStatus is the lifecycle status of a physical asset. RETIRED is
// terminal: reassembly creates a new asset instead of reviving the old one.
type AssetStatus string

const (
	StatusAvailable     AssetStatus = "AVAILABLE"
	StatusAssigned      AssetStatus = "ASSIGNED"
	StatusInMaintenance AssetStatus = "IN_MAINTENANCE"
	StatusRetired       AssetStatus = "RETIRED"
)

func NewAssetStatus(value string) (AssetStatus, error) {
	status := AssetStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid asset status: %s", value)
	}
	return status, nil
}

func (s AssetStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusInMaintenance, StatusRetired:
		return true
	default:
		return false
	}
}

func (s AssetStatus) IsTerminal() bool {
	return s == StatusRetired
}

var assetTransitions = map[AssetStatus][]AssetStatus{
	StatusAvailable:     {StatusAssigned, StatusInMaintenance, StatusRetired},
	StatusAssigned:      {StatusAvailable, StatusInMaintenance, StatusRetired},
	StatusInMaintenance: {StatusAvailable, StatusRetired},
	StatusRetired:       {},
}

func (s AssetStatus) CanTransitionTo(next AssetStatus) bool {
	for _, allowed := range assetTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AssetStatus) String() string {
	return string(s)
}
