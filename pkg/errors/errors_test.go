package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error_WithoutDetail(t *testing.T) {
	err := New(ErrCodeCompoundNotFound, "compound not found")
	assert.Equal(t, "[CMP_001] compound not found", err.Error())
}

func TestAppError_Error_WithDetail(t *testing.T) {
	err := New(ErrCodeCompoundNotFound, "compound not found").WithDetail("id=42")
	assert.Equal(t, "[CMP_001] compound not found: id=42", err.Error())
}

func TestAppError_WithDetail_NilSafe(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("x"))
	assert.Nil(t, e.WithCause(stderrors.New("x")))
}

func TestAppError_WithDetail_DoesNotMutateReceiver(t *testing.T) {
	base := New(ErrCodeBadRequest, "bad")
	_ = base.WithDetail("d")
	assert.Empty(t, base.Detail)
}

func TestNew_CapturesStack(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	assert.Contains(t, err.Stack, "TestNew_CapturesStack")
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
}

func TestWrap_PreservesChain(t *testing.T) {
	root := context.DeadlineExceeded
	err := Wrap(root, ErrCodeTimeout, "upstream timed out")
	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, ErrCodeTimeout, err.Code)
}

func TestWrap_UnknownKeepsOriginalCode(t *testing.T) {
	inner := New(ErrCodeMoleculeInvalidSMILES, "bad smiles")
	err := Wrap(inner, CodeUnknown, "while fetching structure")
	assert.Equal(t, ErrCodeMoleculeInvalidSMILES, err.Code)
}

func TestWrap_KeepsUpstreamAttribution(t *testing.T) {
	inner := Upstream("cir", http.StatusNotFound, nil)
	err := Wrap(inner, ErrCodeStructureUnavailable, "no structure")
	assert.Equal(t, "cir", err.Provider)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestUpstream_CodeByStatus(t *testing.T) {
	tests := []struct {
		status int
		code   ErrorCode
		http   int
	}{
		{0, ErrCodeDataSourceUnavailable, http.StatusBadGateway},
		{http.StatusTooManyRequests, ErrCodeDataSourceRateLimited, http.StatusTooManyRequests},
		{http.StatusNotFound, ErrCodeDataSourceBadStatus, http.StatusNotFound},
		{http.StatusServiceUnavailable, ErrCodeDataSourceBadStatus, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := Upstream("pubchem", tt.status, nil)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.http, err.HTTPStatus())
			assert.True(t, IsUpstream(err))
		})
	}
}

func TestUpstream_Message(t *testing.T) {
	assert.Equal(t, "pubchem returned status 404", Upstream("pubchem", 404, nil).Message)
	assert.Equal(t, "opsin request failed", Upstream("opsin", 0, stderrors.New("dial")).Message)
}

func TestIsCode_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeBatchTooLarge, "too many"))
	assert.True(t, IsCode(err, ErrCodeBatchTooLarge))
	assert.False(t, IsCode(err, ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsNotFound(New(ErrCodeCompoundNotFound, "x")))
	assert.True(t, IsNotFound(New(ErrCodeStructureUnavailable, "x")))
	assert.False(t, IsNotFound(InvalidParam("x")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeRateLimit, GetCode(RateLimit("slow down")))
}

func TestHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("plain")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidParam("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal("x")))
}

//Personal.AI order the ending
