package model

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordError(t *testing.T) {
	_, cause := strconv.ParseFloat("seven", 64)
	err := error(&RecordError{Line: 4, Column: "num_packages", Value: "seven", Err: cause})

	assert.Equal(t, `line 4: column "num_packages" value "seven": strconv.ParseFloat: parsing "seven": invalid syntax`, err.Error())
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	var rec *RecordError
	require.ErrorAs(t, err, &rec)
	assert.Equal(t, 4, rec.Line)
}

func TestRecordErrorWithoutColumn(t *testing.T) {
	err := &RecordError{Line: 2, Err: errors.New("wrong number of fields")}

	assert.Equal(t, "line 2: wrong number of fields", err.Error())
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestRecordErrorWithoutCause(t *testing.T) {
	err := &RecordError{Line: 9}

	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Len(t, err.Unwrap(), 1)
}

func TestUnknownCategoryError(t *testing.T) {
	err := UnknownCategoryError("todo")

	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.NotErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), `"todo"`)
}
