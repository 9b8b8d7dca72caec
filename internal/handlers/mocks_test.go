package handlers_test

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AllocationService ---
type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) allocation(args mock.Arguments) (*domain.TransactionAllocation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionAllocation), args.Error(1)
}

func (m *MockAllocationService) GetAllocation(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error) {
	return m.allocation(m.Called(ctx, transactionID, userID))
}
func (m *MockAllocationService) SaveAllocation(ctx context.Context, transactionID int64, req dto.SaveAllocationRequest, userID string) (*domain.TransactionAllocation, error) {
	return m.allocation(m.Called(ctx, transactionID, req, userID))
}
func (m *MockAllocationService) AddRow(ctx context.Context, transactionID int64, userID string) (*domain.TransactionAllocation, error) {
	return m.allocation(m.Called(ctx, transactionID, userID))
}
func (m *MockAllocationService) EditRow(ctx context.Context, transactionID int64, index int, req dto.EditRowRequest, userID string) (*domain.TransactionAllocation, error) {
	return m.allocation(m.Called(ctx, transactionID, index, req, userID))
}
func (m *MockAllocationService) RemoveRow(ctx context.Context, transactionID int64, index int, userID string) (*domain.TransactionAllocation, error) {
	return m.allocation(m.Called(ctx, transactionID, index, userID))
}

// Ensure mock implements the interface
var _ portssvc.AllocationSvcFacade = (*MockAllocationService)(nil)

// --- Mock RuleService ---
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) rule(args mock.Arguments) (*domain.AllocationRule, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationRule), args.Error(1)
}

func (m *MockRuleService) rules(args mock.Arguments) ([]domain.AllocationRule, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllocationRule), args.Error(1)
}

func (m *MockRuleService) GetRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error) {
	return m.rule(m.Called(ctx, ruleID))
}
func (m *MockRuleService) ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error) {
	return m.rules(m.Called(ctx, txnType))
}
func (m *MockRuleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.AllocationRule, error) {
	return m.rule(m.Called(ctx, req, userID))
}
func (m *MockRuleService) UpdateRule(ctx context.Context, ruleID int64, req dto.UpdateRuleRequest, userID string) (*domain.AllocationRule, error) {
	return m.rule(m.Called(ctx, ruleID, req, userID))
}
func (m *MockRuleService) DeleteRule(ctx context.Context, ruleID int64) error {
	return m.Called(ctx, ruleID).Error(0)
}
func (m *MockRuleService) ReorderRules(ctx context.Context, req dto.ReorderRulesRequest, userID string) ([]domain.AllocationRule, error) {
	return m.rules(m.Called(ctx, req, userID))
}
func (m *MockRuleService) DryRun(ctx context.Context, req dto.DryRunRequest) (*dto.DryRunResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DryRunResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RuleSvcFacade = (*MockRuleService)(nil)

// --- Mock BatchService ---
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) RunBatch(ctx context.Context, req dto.BatchRequest, userID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}
func (m *MockBatchService) AutoAllocate(ctx context.Context, limit int, userID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, limit, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BatchSvc = (*MockBatchService)(nil)
