package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBatchService struct {
	mock.Mock
}

func (m *mockBatchService) RunBatch(ctx context.Context, req dto.BatchRequest, userID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *mockBatchService) AutoAllocate(ctx context.Context, limit int, userID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, limit, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRulesDryRunCommand(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.yaml", sampleRules)
	txnsPath := writeFile(t, dir, "export.csv", "id,type,description,amount\n"+
		"1,INCOME,May rent,650.00\n"+
		"2,INCOME,Laundry,5.00\n"+
		"3,EXPENSE,Roof,-300.00\n")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"rules", "dry-run", "--rules", rulesPath, "--transactions", txnsPath})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "RULE")
	assert.Contains(t, lines[1], "rent")
	assert.Contains(t, lines[1], "30")
	assert.Contains(t, lines[2], "-")
	assert.Contains(t, lines[3], "big repairs")
}

func TestRulesDryRunCommand_RequiresTransactions(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"rules", "dry-run"})

	assert.Error(t, cmd.Execute())
}

func TestWriteDryRunReport_OnlyUnmatched(t *testing.T) {
	rules, err := LoadRules(strings.NewReader(sampleRules))
	require.NoError(t, err)
	txns := []domain.Transaction{
		{ID: 1, Type: domain.TypeIncome, Description: "May rent"},
		{ID: 2, Type: domain.TypeDeposit, Receiver: "Savings"},
	}

	var out bytes.Buffer
	matched := writeDryRunReport(&out, txns, rules, true)

	assert.Equal(t, 1, matched)
	assert.NotContains(t, out.String(), "May rent")
	// The savings rule is inactive, so the deposit stays unmatched.
	assert.Contains(t, out.String(), "DEPOSIT")
}

func TestRunAutoAllocate(t *testing.T) {
	svc := new(mockBatchService)
	result := domain.AggregateBatchResult([]domain.BatchItemResult{
		{ID: 4, StatusCode: http.StatusOK, Message: "category 30 assigned by rule \"rent\""},
		{ID: 5, StatusCode: http.StatusOK, Message: "no matching rule"},
		{ID: 6, StatusCode: http.StatusInternalServerError, Message: "internal error while processing transaction"},
	})
	svc.On("AutoAllocate", mock.MatchedBy(func(ctx context.Context) bool {
		userID, ok := middleware.GetUserIDFromCtx(ctx)
		return ok && userID == "cli"
	}), 50, "cli").Return(&result, nil).Once()

	var out bytes.Buffer
	err := runAutoAllocate(context.Background(), &out, svc, &autoAllocateOptions{limit: 50, userID: cliUserID})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "processed 3 transactions: 2 succeeded, 1 failed")
	assert.Contains(t, out.String(), "transaction 6: 500")
	assert.NotContains(t, out.String(), "transaction 4")
	svc.AssertExpectations(t)
}

func TestRunAutoAllocate_Error(t *testing.T) {
	svc := new(mockBatchService)
	svc.On("AutoAllocate", mock.Anything, 10, "ops").Return(nil, errors.New("pool closed")).Once()

	err := runAutoAllocate(context.Background(), &bytes.Buffer{}, svc, &autoAllocateOptions{limit: 10, userID: "ops"})

	assert.ErrorContains(t, err, "auto-allocation failed")
}
