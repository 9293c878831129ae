package errorutil_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/loan-service/internal/workflow"
	"github.com/spec-kit/loan-service/pkg/errorutil"
)

func Test_ToDomainError_WorkflowKinds(t *testing.T) {
	tests := []struct {
		kind   workflow.ErrorKind
		status int
	}{
		{workflow.KindUserNotFound, http.StatusNotFound},
		{workflow.KindBookNotFound, http.StatusNotFound},
		{workflow.KindLoanNotFound, http.StatusNotFound},
		{workflow.KindUserIneligible, http.StatusUnprocessableEntity},
		{workflow.KindBookUnavailable, http.StatusUnprocessableEntity},
		{workflow.KindLoanLimitExceeded, http.StatusUnprocessableEntity},
		{workflow.KindLoanAlreadyReturned, http.StatusConflict},
		{workflow.KindUpstreamUnavailable, http.StatusServiceUnavailable},
		{workflow.KindPersistenceError, http.StatusInternalServerError},
		{workflow.KindBookUpdateFailed, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			wfErr := &workflow.Error{Kind: tc.kind, Reason: "because"}

			domainErr := errorutil.ToDomainError(wfErr)

			require.NotNil(t, domainErr)
			assert.Equal(t, string(tc.kind), domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
			assert.Equal(t, "because", domainErr.Message)
		})
	}
}

func Test_ToDomainError_ForeignErrorsAreInternal(t *testing.T) {
	domainErr := errorutil.ToDomainError(errors.New("boom"))

	require.NotNil(t, domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}

func Test_ToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := errorutil.NewValidationError("bad input", map[string]any{"field": "user_id"})

	domainErr := errorutil.ToDomainError(original)

	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
}

func Test_ToDomainError_Nil(t *testing.T) {
	assert.Nil(t, errorutil.ToDomainError(nil))
}
