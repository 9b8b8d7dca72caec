package dto

import "github.com/SscSPs/rental_reconciler/internal/core/domain"

// BatchParams carries the operation specific parameters of a batch request.
type BatchParams struct {
	NewType               domain.TransactionType `json:"newType" binding:"omitempty,txntype"`
	CategoryID            *int64                 `json:"categoryID"`
	PrincipalCategoryID   *int64                 `json:"principalCategoryID"`
	InterestCategoryID    *int64                 `json:"interestCategoryID"`
	HandlingFeeCategoryID *int64                 `json:"handlingFeeCategoryID"`
}

// BatchRequest applies one operation to many transactions.
type BatchRequest struct {
	Operation domain.BatchOperation `json:"operation" binding:"required"`
	IDs       []int64               `json:"ids"`
	Params    BatchParams           `json:"params"`
}

// ToDomainParams converts the request params to domain.BatchParams.
func (p BatchParams) ToDomainParams() domain.BatchParams {
	return domain.BatchParams{
		NewType:               p.NewType,
		CategoryID:            p.CategoryID,
		PrincipalCategoryID:   p.PrincipalCategoryID,
		InterestCategoryID:    p.InterestCategoryID,
		HandlingFeeCategoryID: p.HandlingFeeCategoryID,
	}
}
