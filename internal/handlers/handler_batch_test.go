package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/rental_reconciler/internal/apperrors"
	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/dto"
	"github.com/SscSPs/rental_reconciler/internal/handlers"
	"github.com/SscSPs/rental_reconciler/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type BatchHandlerTestSuite struct {
	handlerSuite
}

func (s *BatchHandlerTestSuite) TestRunBatch_ReportsPerItemResults() {
	outcomes := []domain.BatchItemResult{
		{ID: 1, StatusCode: http.StatusOK, Message: "deleted"},
		{ID: 2, StatusCode: http.StatusNotFound, Message: "transaction 2: resource not found"},
		{ID: 3, StatusCode: http.StatusOK, Message: "deleted"},
	}
	result := domain.AggregateBatchResult(outcomes)
	s.batchSvc.On("RunBatch", mock.Anything, mock.MatchedBy(func(req dto.BatchRequest) bool {
		return req.Operation == domain.OpDelete && len(req.IDs) == 3
	}), "user-1").Return(&result, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/batch", map[string]any{"operation": "delete", "ids": []int64{1, 2, 3}})

	s.Equal(http.StatusOK, w.Code)
	var resp domain.BatchResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(3, resp.Total)
	s.Equal(2, resp.Success)
	s.Equal(1, resp.Failed)
	s.False(resp.AllSuccess)
	s.Equal(http.StatusNotFound, resp.Results[1].StatusCode)
	s.batchSvc.AssertExpectations(s.T())
}

func (s *BatchHandlerTestSuite) TestRunBatch_MalformedRequest() {
	w := s.do(http.MethodPost, "/api/v1/transactions/batch", map[string]any{"ids": []int64{1}})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/transactions/batch", map[string]any{"operation": "retype", "ids": []int64{1}, "params": map[string]any{"newType": "LOAN"}})
	s.Equal(http.StatusBadRequest, w.Code)

	s.batchSvc.AssertNotCalled(s.T(), "RunBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchHandlerTestSuite) TestRunBatch_ServiceErrors() {
	s.batchSvc.On("RunBatch", mock.Anything, mock.MatchedBy(func(req dto.BatchRequest) bool {
		return req.Operation == "merge"
	}), "user-1").Return(nil, fmt.Errorf("unsupported operation %q: %w", "merge", apperrors.ErrValidation)).Once()
	s.batchSvc.On("RunBatch", mock.Anything, mock.MatchedBy(func(req dto.BatchRequest) bool {
		return req.Operation == domain.OpApplyRules
	}), "user-1").Return(nil, errors.New("pool closed")).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/batch", map[string]any{"operation": "merge", "ids": []int64{1}})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/transactions/batch", map[string]any{"operation": "applyRules", "ids": []int64{1}})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Failed to run batch", s.errorMessage(w))
}

func (s *BatchHandlerTestSuite) TestRunBatch_RateLimited() {
	rate, err := limiter.NewRateFromFormatted("1-M")
	s.Require().NoError(err)

	s.router = gin.New()
	container := &portssvc.ServiceContainer{Allocation: s.allocationSvc, Rule: s.ruleSvc, Batch: s.batchSvc}
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: testJWTSecret, IsProduction: true}, container, limiter.New(memory.NewStore(), rate))

	result := domain.AggregateBatchResult(nil)
	s.batchSvc.On("RunBatch", mock.Anything, mock.Anything, "user-1").Return(&result, nil).Once()

	body := map[string]any{"operation": "delete", "ids": []int64{1}}
	w := s.do(http.MethodPost, "/api/v1/transactions/batch", body)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("1", w.Header().Get("X-RateLimit-Limit"))

	w = s.do(http.MethodPost, "/api/v1/transactions/batch", body)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.batchSvc.AssertNumberOfCalls(s.T(), "RunBatch", 1)
}

func TestBatchHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BatchHandlerTestSuite))
}
