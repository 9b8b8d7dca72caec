package services_test

import (
	"context"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllocationRows(ctx context.Context, transactionID int64) ([]domain.AllocationRow, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllocationRow), args.Error(1)
}

func (m *MockTransactionRepository) ListUncategorizedTransactionIDs(ctx context.Context, limit int) ([]int64, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// ReplaceAllocationRows returns the rows it was given unless the expectation supplies others.
func (m *MockTransactionRepository) ReplaceAllocationRows(ctx context.Context, transactionID int64, rows []domain.AllocationRow) ([]domain.AllocationRow, error) {
	args := m.Called(ctx, transactionID, rows)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return rows, nil
	}
	return args.Get(0).([]domain.AllocationRow), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactionWithRows(ctx context.Context, txn domain.Transaction, rows []domain.AllocationRow) ([]domain.AllocationRow, error) {
	args := m.Called(ctx, txn, rows)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return rows, nil
	}
	return args.Get(0).([]domain.AllocationRow), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockCategoryRepository is a mock type for the CategoryReader interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID int64) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// MockRuleRepository is a mock type for the RuleRepositoryFacade interface
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID int64) (*domain.AllocationRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationRule), args.Error(1)
}

func (m *MockRuleRepository) ListActiveRulesFor(ctx context.Context, txnType domain.TransactionType) ([]domain.AllocationRule, error) {
	args := m.Called(ctx, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllocationRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, txnType *domain.TransactionType) ([]domain.AllocationRule, error) {
	args := m.Called(ctx, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllocationRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.AllocationRule) (*domain.AllocationRule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationRule), args.Error(1)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, rule domain.AllocationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, ruleID int64) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRulePriorities(ctx context.Context, ruleIDs []int64, updatedBy string) error {
	args := m.Called(ctx, ruleIDs, updatedBy)
	return args.Error(0)
}

// MockEventTracker records analytics events.
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

func int64Ptr(v int64) *int64 {
	return &v
}
