package handler

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-taskflow/errors"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/extraction"
)

func TestToAppError_PassesThroughAppErrors(t *testing.T) {
	in := errors.ErrNotFound("Meeting")
	out := toAppError(in)
	assert.Equal(t, errors.ErrorCode_NOT_FOUND, out.Code)
	assert.Equal(t, http.StatusNotFound, out.HTTPCode)
}

func TestToAppError_MapsExtractionReasons(t *testing.T) {
	cases := []struct {
		reason extraction.Reason
		code   errors.ErrorCode
		status int
	}{
		{extraction.ReasonRejectedInput, errors.ErrorCode_TRANSCRIPT_REJECTED, http.StatusBadRequest},
		{extraction.ReasonTransientExhausted, errors.ErrorCode_AI_SERVICE_UNAVAILABLE, http.StatusServiceUnavailable},
		{extraction.ReasonInvalidResponse, errors.ErrorCode_EXTRACTION_FAILED, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		err := &extraction.ExtractionError{Reason: tc.reason, Err: stdErrors.New("boom")}
		out := toAppError(err)
		assert.Equal(t, tc.code, out.Code, string(tc.reason))
		assert.Equal(t, tc.status, out.HTTPCode, string(tc.reason))
	}
}

func TestToAppError_MapsDomainSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{entities.ErrActionItemNotFound, http.StatusNotFound},
		{entities.ErrMemberNotFound, http.StatusNotFound},
		{entities.ErrMemberNotActive, http.StatusBadRequest},
		{entities.ErrInvalidItemStatus, http.StatusBadRequest},
		{entities.ErrUnknownNotificationType, http.StatusBadRequest},
		{entities.ErrAssignmentNotAllowed, http.StatusForbidden},
		{entities.ErrForbidden, http.StatusForbidden},
		{entities.ErrInvitationNotPending, http.StatusConflict},
	}

	for _, tc := range cases {
		out := toAppError(tc.err)
		assert.Equal(t, tc.status, out.HTTPCode, tc.err.Error())
	}
}

func TestToAppError_WrappedSentinelStillMaps(t *testing.T) {
	wrapped := stdErrors.Join(stdErrors.New("context"), entities.ErrActionItemNotFound)
	out := toAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, out.HTTPCode)
}

func TestToAppError_UnknownErrorIsInternal(t *testing.T) {
	out := toAppError(stdErrors.New("mystery"))
	assert.Equal(t, errors.ErrorCode_INTERNAL, out.Code)
	assert.Equal(t, http.StatusInternalServerError, out.HTTPCode)
}
