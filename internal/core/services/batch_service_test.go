package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/core/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BatchServiceTestSuite struct {
	suite.Suite
	txnRepo      *MockTransactionRepository
	categoryRepo *MockCategoryRepository
	ruleRepo     *MockRuleRepository
	tracker      *MockEventTracker
	service      portssvc.BatchSvc
}

func (suite *BatchServiceTestSuite) SetupTest() {
	suite.txnRepo = new(MockTransactionRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.ruleRepo = new(MockRuleRepository)
	suite.tracker = new(MockEventTracker)
	suite.service = services.NewBatchService(suite.txnRepo, suite.categoryRepo, suite.ruleRepo,
		services.WithBatchMaxItems(10),
		services.WithBatchEventTracker(suite.tracker))
	suite.tracker.On("Enqueue", "user-1", "transactions_batch_completed", mock.Anything).Maybe()
}

func expenseTxn(id int64, amount string, description string) *domain.Transaction {
	return &domain.Transaction{
		ID:          id,
		Type:        domain.TypeExpense,
		Status:      domain.StatusPending,
		Sender:      "Landlord Oy",
		Receiver:    "Helen Oy",
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	}
}

func (suite *BatchServiceTestSuite) TestRunBatch_IsolatesFailures() {
	ctx := context.Background()
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(1)).Return(expenseTxn(1, "-10.00", "a"), nil).Once()
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(2)).Return(nil, apperrors.ErrNotFound).Once()
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(3)).Return(expenseTxn(3, "-30.00", "c"), nil).Once()
	suite.txnRepo.On("UpdateTransaction", mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.TypeIncome && t.LastUpdatedBy == "user-1"
	})).Return(nil).Twice()

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{
		Operation: domain.OpRetype,
		IDs:       []int64{1, 2, 3},
		Params:    dto.BatchParams{NewType: domain.TypeIncome},
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(3, result.Total)
	suite.Equal(2, result.Success)
	suite.Equal(1, result.Failed)
	suite.False(result.AllSuccess)
	suite.Require().Len(result.Results, 3)
	suite.Equal(int64(1), result.Results[0].ID)
	suite.Equal(http.StatusOK, result.Results[0].StatusCode)
	suite.Equal(int64(2), result.Results[1].ID)
	suite.Equal(http.StatusNotFound, result.Results[1].StatusCode)
	suite.Equal(int64(3), result.Results[2].ID)
	suite.Equal(http.StatusOK, result.Results[2].StatusCode)
	suite.txnRepo.AssertExpectations(suite.T())
	suite.tracker.AssertCalled(suite.T(), "Enqueue", "user-1", "transactions_batch_completed", mock.Anything)
}

func (suite *BatchServiceTestSuite) TestRunBatch_RejectsMalformedRequests() {
	ctx := context.Background()
	tests := []struct {
		name string
		req  dto.BatchRequest
	}{
		{name: "empty ids", req: dto.BatchRequest{Operation: domain.OpDelete}},
		{name: "unknown operation", req: dto.BatchRequest{Operation: "merge", IDs: []int64{1}}},
		{name: "too many ids", req: dto.BatchRequest{Operation: domain.OpDelete, IDs: make([]int64, 11)}},
		{name: "retype without type", req: dto.BatchRequest{Operation: domain.OpRetype, IDs: []int64{1}}},
		{name: "recategorize without category", req: dto.BatchRequest{Operation: domain.OpRecategorize, IDs: []int64{1}}},
		{name: "split without interest category", req: dto.BatchRequest{
			Operation: domain.OpSplitLoanPayment,
			IDs:       []int64{1},
			Params:    dto.BatchParams{PrincipalCategoryID: int64Ptr(1)},
		}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result, err := suite.service.RunBatch(ctx, tt.req, "user-1")
			suite.Nil(result)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.txnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *BatchServiceTestSuite) TestRunBatch_RecategorizeChecksCategoryKind() {
	ctx := context.Background()
	income := expenseTxn(2, "650.00", "rent")
	income.Type = domain.TypeIncome
	deposit := expenseTxn(3, "1200.00", "deposit")
	deposit.Type = domain.TypeDeposit

	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(1)).Return(expenseTxn(1, "-45.00", "Electricity"), nil)
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(2)).Return(income, nil)
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(3)).Return(deposit, nil)
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(7)).
		Return(&domain.Category{ID: 7, Kind: domain.CategoryExpense, Name: "Utilities"}, nil).Once()
	suite.txnRepo.On("FindAllocationRows", mock.Anything, int64(1)).Return([]domain.AllocationRow{}, nil)
	suite.txnRepo.On("ReplaceAllocationRows", mock.Anything, int64(1), mock.MatchedBy(func(rows []domain.AllocationRow) bool {
		return len(rows) == 1 && *rows[0].CategoryID == 7 &&
			rows[0].RowTotal.Equal(decimal.RequireFromString("-45.00")) &&
			rows[0].Description == "Electricity"
	})).Return(nil, nil).Once()

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{
		Operation: domain.OpRecategorize,
		IDs:       []int64{1, 2, 3},
		Params:    dto.BatchParams{CategoryID: int64Ptr(7)},
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(1, result.Success)
	suite.Equal(http.StatusOK, result.Results[0].StatusCode)
	suite.Equal(http.StatusBadRequest, result.Results[1].StatusCode, "expense category on income transaction")
	suite.Equal(http.StatusBadRequest, result.Results[2].StatusCode, "deposits cannot be categorized")
	suite.txnRepo.AssertExpectations(suite.T())
	suite.categoryRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestRunBatch_UnknownCategoryIsNotFound() {
	ctx := context.Background()
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(1)).Return(expenseTxn(1, "-45.00", "x"), nil)
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{
		Operation: domain.OpRecategorize,
		IDs:       []int64{1},
		Params:    dto.BatchParams{CategoryID: int64Ptr(99)},
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, result.Results[0].StatusCode)
	suite.Contains(result.Results[0].Message, "category 99")
}

func (suite *BatchServiceTestSuite) TestRunBatch_StoreErrorIsGeneric500() {
	ctx := context.Background()
	suite.txnRepo.On("DeleteTransaction", mock.Anything, int64(1)).Return(errors.New("connection reset by peer"))
	suite.txnRepo.On("DeleteTransaction", mock.Anything, int64(2)).Return(nil)

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{Operation: domain.OpDelete, IDs: []int64{1, 2}}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(http.StatusInternalServerError, result.Results[0].StatusCode)
	suite.NotContains(result.Results[0].Message, "connection reset")
	suite.Equal(http.StatusOK, result.Results[1].StatusCode)
	suite.Equal("deleted", result.Results[1].Message)
}

func (suite *BatchServiceTestSuite) TestRunBatch_SplitLoanPayment() {
	ctx := context.Background()
	fee := decimal.RequireFromString("5.00")
	loanTxn := expenseTxn(1, "-500.00", "Loan payment")
	loanTxn.Loan = &domain.LoanBreakdown{
		Principal:   decimal.RequireFromString("400.00"),
		Interest:    decimal.RequireFromString("95.00"),
		HandlingFee: &fee,
	}
	badTxn := expenseTxn(2, "-500.00", "Loan payment")
	badTxn.Loan = &domain.LoanBreakdown{Principal: decimal.RequireFromString("400.00"), Interest: decimal.RequireFromString("50.00")}

	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(1)).Return(loanTxn, nil)
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(2)).Return(badTxn, nil)
	for _, id := range []int64{11, 12, 13} {
		suite.categoryRepo.On("FindCategoryByID", mock.Anything, id).
			Return(&domain.Category{ID: id, Kind: domain.CategoryExpense}, nil).Once()
	}
	suite.txnRepo.On("ReplaceAllocationRows", mock.Anything, int64(1), mock.MatchedBy(func(rows []domain.AllocationRow) bool {
		return len(rows) == 3 &&
			rows[0].RowTotal.Equal(decimal.RequireFromString("-400.00")) &&
			rows[1].RowTotal.Equal(decimal.RequireFromString("-95.00")) &&
			rows[2].RowTotal.Equal(decimal.RequireFromString("-5.00"))
	})).Return(nil, nil).Once()

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{
		Operation: domain.OpSplitLoanPayment,
		IDs:       []int64{1, 2},
		Params: dto.BatchParams{
			PrincipalCategoryID:   int64Ptr(11),
			InterestCategoryID:    int64Ptr(12),
			HandlingFeeCategoryID: int64Ptr(13),
		},
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, result.Results[0].StatusCode)
	suite.Equal(http.StatusBadRequest, result.Results[1].StatusCode, "parts do not sum to the amount")
	suite.txnRepo.AssertExpectations(suite.T())
	suite.categoryRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestRunBatch_ApplyRules() {
	ctx := context.Background()
	rule := domain.AllocationRule{
		ID:              4,
		Name:            "electricity",
		TransactionType: domain.TypeExpense,
		CategoryID:      int64Ptr(7),
		Conditions:      []domain.RuleCondition{{Field: domain.FieldReceiver, Operator: domain.OpEquals, Value: "Helen Oy"}},
		IsActive:        true,
	}
	unmatched := expenseTxn(3, "-20.00", "Water")
	unmatched.Receiver = "HSY"

	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(1)).Return(expenseTxn(1, "-45.00", "Electricity"), nil)
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(2)).Return(expenseTxn(2, "-50.00", "Electricity"), nil)
	suite.txnRepo.On("FindTransactionByID", mock.Anything, int64(3)).Return(unmatched, nil)
	suite.ruleRepo.On("ListActiveRulesFor", mock.Anything, domain.TypeExpense).Return([]domain.AllocationRule{rule}, nil).Once()
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, int64(7)).
		Return(&domain.Category{ID: 7, Kind: domain.CategoryExpense}, nil).Once()
	suite.txnRepo.On("FindAllocationRows", mock.Anything, int64(1)).Return([]domain.AllocationRow{}, nil)
	suite.txnRepo.On("FindAllocationRows", mock.Anything, int64(2)).Return([]domain.AllocationRow{
		{ID: 20, TransactionID: 2, Quantity: 1, UnitAmount: decimal.RequireFromString("-50"), RowTotal: decimal.RequireFromString("-50"), CategoryID: int64Ptr(8)},
	}, nil)
	suite.txnRepo.On("ReplaceAllocationRows", mock.Anything, int64(1), mock.MatchedBy(func(rows []domain.AllocationRow) bool {
		return len(rows) == 1 && *rows[0].CategoryID == 7
	})).Return(nil, nil).Once()

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{Operation: domain.OpApplyRules, IDs: []int64{1, 2, 3}}, "user-1")

	suite.Require().NoError(err)
	suite.True(result.AllSuccess)
	suite.Contains(result.Results[0].Message, "electricity")
	suite.Equal("already categorized", result.Results[1].Message)
	suite.Equal("no matching rule", result.Results[2].Message)
	suite.ruleRepo.AssertExpectations(suite.T())
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestRunBatch_IgnoresCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	suite.txnRepo.On("DeleteTransaction", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), mock.Anything).Return(nil).Twice()

	result, err := suite.service.RunBatch(ctx, dto.BatchRequest{Operation: domain.OpDelete, IDs: []int64{1, 2}}, "user-1")

	suite.Require().NoError(err)
	suite.True(result.AllSuccess)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *BatchServiceTestSuite) TestAutoAllocate() {
	ctx := context.Background()
	suite.txnRepo.On("ListUncategorizedTransactionIDs", mock.Anything, 25).Return([]int64{}, nil).Once()

	result, err := suite.service.AutoAllocate(ctx, 25, "user-1")

	suite.Require().NoError(err)
	suite.Equal(0, result.Total)
	suite.True(result.AllSuccess)
	suite.NotNil(result.Results)

	_, err = suite.service.AutoAllocate(ctx, 0, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
