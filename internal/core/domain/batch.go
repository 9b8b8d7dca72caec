package domain

import "net/http"

// BatchOperation names a bulk action applied to many transactions.
type BatchOperation string

const (
	OpRetype           BatchOperation = "retype"
	OpRecategorize     BatchOperation = "recategorize"
	OpSplitLoanPayment BatchOperation = "splitLoanPayment"
	OpDelete           BatchOperation = "delete"
	OpApplyRules       BatchOperation = "applyRules"
)

// IsValid reports whether op is a supported batch operation.
func (op BatchOperation) IsValid() bool {
	switch op {
	case OpRetype, OpRecategorize, OpSplitLoanPayment, OpDelete, OpApplyRules:
		return true
	}
	return false
}

// BatchParams holds the operation specific parameters. Unused fields are ignored.
type BatchParams struct {
	NewType               TransactionType
	CategoryID            *int64
	PrincipalCategoryID   *int64
	InterestCategoryID    *int64
	HandlingFeeCategoryID *int64
}

// BatchItemResult is the outcome of one transaction within a batch.
type BatchItemResult struct {
	ID         int64  `json:"id"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Succeeded reports whether the item was processed successfully.
func (r BatchItemResult) Succeeded() bool {
	return r.StatusCode == http.StatusOK
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Total      int               `json:"total"`
	Success    int               `json:"success"`
	Failed     int               `json:"failed"`
	AllSuccess bool              `json:"allSuccess"`
	Results    []BatchItemResult `json:"results"`
}

// AggregateBatchResult builds the summary for outcomes. The outcomes slice is kept as is.
func AggregateBatchResult(outcomes []BatchItemResult) BatchResult {
	success := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			success++
		}
	}
	if outcomes == nil {
		outcomes = []BatchItemResult{}
	}
	failed := len(outcomes) - success
	return BatchResult{
		Total:      len(outcomes),
		Success:    success,
		Failed:     failed,
		AllSuccess: failed == 0,
		Results:    outcomes,
	}
}
