package validation

import (
	"testing"

	"pywhiz/internal/domain"
	"pywhiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_MarkProgressRequest(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.ValidateStruct(&dto.MarkProgressRequest{MilestoneID: "m1", Kind: "watched_video"}))

	errs := v.ValidateStruct(&dto.MarkProgressRequest{Kind: "completed_milestone"})
	require.Len(t, errs, 2)
	assert.Equal(t, "milestone_id", errs[0].Field)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	assert.Equal(t, "kind", errs[1].Field)
	assert.Equal(t, domain.CodeInvalidFormat, errs[1].Code)
}

func TestValidateStruct_SubmitCodeRequestInputsBound(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.ValidateStruct(&dto.SubmitCodeRequest{Code: "print(1)", Inputs: []string{"a", "b"}}))

	errs := v.ValidateStruct(&dto.SubmitCodeRequest{Code: "print(1)", Inputs: make([]string, dto.MaxStdinLines+1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "inputs", errs[0].Field)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	assert.Equal(t, dto.MaxStdinLines+1, errs[0].Value)
	assert.Contains(t, errs[0].Message, "at most 50")
}

func TestValidateStruct_PaginationQueryNames(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateStruct(&dto.Pagination{Page: 1, PageSize: 500})
	require.Len(t, errs, 1)
	assert.Equal(t, "page_size", errs[0].Field)
	assert.Equal(t, "value must be at most 100", errs[0].Message)
}

func TestValidateID(t *testing.T) {
	v := NewValidator()
	assert.Nil(t, v.ValidateID("id", "01HXYZ"))
	assert.Len(t, v.ValidateID("id", "  "), 1)
}
