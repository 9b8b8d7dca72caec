package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/handlers"
	"github.com/SscSPs/rental_reconciler/internal/platform/config"
	"github.com/SscSPs/rental_reconciler/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// handlerSuite wires the real router, auth middleware included, over mocked services.
type handlerSuite struct {
	suite.Suite
	router         *gin.Engine
	allocationSvc  *MockAllocationService
	ruleSvc        *MockRuleService
	batchSvc       *MockBatchService
	requestingUser string
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.allocationSvc = new(MockAllocationService)
	s.ruleSvc = new(MockRuleService)
	s.batchSvc = new(MockBatchService)
	s.requestingUser = "user-1"

	cfg := &config.Config{JWTSecret: testJWTSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{
		Allocation: s.allocationSvc,
		Rule:       s.ruleSvc,
		Batch:      s.batchSvc,
	}
	handlers.RegisterRoutes(s.router, cfg, container, nil)
}

// generateTestToken creates a signed JWT for testing.
func (s *handlerSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, "")
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (s *handlerSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+s.generateTestToken(s.requestingUser))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

type AllocationHandlerTestSuite struct {
	handlerSuite
}

func rentAllocation() *domain.TransactionAllocation {
	return &domain.TransactionAllocation{
		Transaction: domain.Transaction{ID: 42, Type: domain.TypeIncome, Description: "May rent", Amount: decimal.RequireFromString("120.00")},
		Rows: []domain.AllocationRow{
			{ID: 1, TransactionID: 42, Quantity: 1, UnitAmount: decimal.RequireFromString("100.00"), RowTotal: decimal.RequireFromString("100.00")},
			{ID: 2, TransactionID: 42, Quantity: 2, UnitAmount: decimal.RequireFromString("10.00"), RowTotal: decimal.RequireFromString("20.00")},
		},
	}
}

func (s *AllocationHandlerTestSuite) TestGetAllocation_Success() {
	s.allocationSvc.On("GetAllocation", mock.Anything, int64(42), "user-1").Return(rentAllocation(), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/42/allocation", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.AllocationResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Rows, 2)
	s.True(resp.Balanced)
	s.True(resp.Unallocated.IsZero())
	s.True(resp.Rows[1].UnitAmount.Equal(decimal.RequireFromString("10")))
	s.allocationSvc.AssertExpectations(s.T())
}

func (s *AllocationHandlerTestSuite) TestGetAllocation_InvalidID() {
	w := s.do(http.MethodGet, "/api/v1/transactions/abc/allocation", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.allocationSvc.AssertNotCalled(s.T(), "GetAllocation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationHandlerTestSuite) TestGetAllocation_NotFound() {
	s.allocationSvc.On("GetAllocation", mock.Anything, int64(7), "user-1").Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/7/allocation", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AllocationHandlerTestSuite) TestGetAllocation_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions/42/allocation", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.allocationSvc.AssertNotCalled(s.T(), "GetAllocation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationHandlerTestSuite) TestSaveAllocation_Success() {
	s.allocationSvc.On("SaveAllocation", mock.Anything, int64(42), mock.MatchedBy(func(req dto.SaveAllocationRequest) bool {
		return req.Transaction.Type == domain.TypeIncome && len(req.Rows) == 2 && req.Rows[1].RowTotal.Equal(decimal.NewFromInt(20))
	}), "user-1").Return(rentAllocation(), nil).Once()

	body := map[string]any{
		"transaction": map[string]any{"type": "INCOME", "status": "ACCEPTED", "description": "May rent", "amount": "120.00"},
		"rows": []map[string]any{
			{"id": 1, "quantity": 1, "rowTotal": "100.00"},
			{"id": 2, "quantity": 2, "rowTotal": "20.00"},
		},
	}
	w := s.do(http.MethodPut, "/api/v1/transactions/42/allocation", body)

	s.Equal(http.StatusOK, w.Code)
	s.allocationSvc.AssertExpectations(s.T())
}

func (s *AllocationHandlerTestSuite) TestSaveAllocation_RejectsBadPayload() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown type", body: map[string]any{"transaction": map[string]any{"type": "LOAN", "amount": "1"}}},
		{name: "unknown status", body: map[string]any{"transaction": map[string]any{"type": "INCOME", "status": "DONE", "amount": "1"}}},
		{name: "negative quantity", body: map[string]any{
			"transaction": map[string]any{"type": "INCOME", "amount": "1"},
			"rows":        []map[string]any{{"quantity": -1, "rowTotal": "1"}},
		}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPut, "/api/v1/transactions/42/allocation", tt.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
	s.allocationSvc.AssertNotCalled(s.T(), "SaveAllocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationHandlerTestSuite) TestSaveAllocation_ServiceValidationError() {
	s.allocationSvc.On("SaveAllocation", mock.Anything, int64(42), mock.Anything, "user-1").
		Return(nil, apperrors.ErrValidation).Once()

	body := map[string]any{"transaction": map[string]any{"type": "INCOME", "amount": "120.001"}}
	w := s.do(http.MethodPut, "/api/v1/transactions/42/allocation", body)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AllocationHandlerTestSuite) TestAddRow() {
	s.allocationSvc.On("AddRow", mock.Anything, int64(42), "user-1").Return(rentAllocation(), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/42/allocation/rows", nil)

	s.Equal(http.StatusOK, w.Code)
	s.allocationSvc.AssertExpectations(s.T())
}

func (s *AllocationHandlerTestSuite) TestEditRow() {
	s.allocationSvc.On("EditRow", mock.Anything, int64(42), 1, mock.MatchedBy(func(req dto.EditRowRequest) bool {
		return req.LastEdited == domain.RowFieldQuantity && req.Quantity == 2
	}), "user-1").Return(rentAllocation(), nil).Once()

	w := s.do(http.MethodPatch, "/api/v1/transactions/42/allocation/rows/1", map[string]any{"lastEdited": "quantity", "quantity": 2})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/v1/transactions/42/allocation/rows/1", map[string]any{"lastEdited": "unitAmount"})
	s.Equal(http.StatusBadRequest, w.Code)

	s.allocationSvc.AssertExpectations(s.T())
}

func (s *AllocationHandlerTestSuite) TestRemoveRow() {
	s.allocationSvc.On("RemoveRow", mock.Anything, int64(42), 0, "user-1").Return(rentAllocation(), nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/transactions/42/allocation/rows/0", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/transactions/42/allocation/rows/-1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorMessage(w), "Invalid row index")

	s.allocationSvc.AssertExpectations(s.T())
}

func TestAllocationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationHandlerTestSuite))
}
