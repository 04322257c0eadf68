package metadata

import "fmt"

// RequestType distinguishes breaking an asset into parts from building a new
// asset out of stocked parts.
type RequestType string

const (
	RequestTypeBreakdown RequestType = "ASSET_BREAKDOWN"
	RequestTypeAssembly  RequestType = "ASSET_ASSEMBLY"
)

func NewRequestType(value string) (RequestType, error) {
	t := RequestType(value)
	if t != RequestTypeBreakdown && t != RequestTypeAssembly {
		return "", fmt.Errorf("invalid request type: %s", value)
	}
	return t, nil
}

func (t RequestType) String() string {
	return string(t)
}

// RequestStatus is the forward-only workflow state of a decomposition request.
// IN_PROGRESS exists only inside the execution transaction; an aborted
// execution rolls back to APPROVED, it never rests in IN_PROGRESS.
type RequestStatus string

const (
	RequestPending    RequestStatus = "PENDING"
	RequestApproved   RequestStatus = "APPROVED"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCompleted  RequestStatus = "COMPLETED"
	RequestRejected   RequestStatus = "REJECTED"
)

func NewRequestStatus(value string) (RequestStatus, error) {
	status := RequestStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid request status: %s", value)
	}
	return status, nil
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestInProgress, RequestCompleted, RequestRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the request can no longer change. Terminal
// requests are immutable; only non-terminal ones count as in-flight.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestRejected
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:    {RequestApproved, RequestRejected},
	RequestApproved:   {RequestInProgress, RequestRejected},
	RequestInProgress: {RequestCompleted, RequestApproved},
	RequestCompleted:  {},
	RequestRejected:   {},
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) String() string {
	return string(s)
}
