package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "Database not found", NotFound("Database not found").Error())

	cause := errors.New("IO exception: Could not set lock on file")
	err := Engine(StageOpen, "Failed to open database", cause)
	assert.Equal(t, "Failed to open database: IO exception: Could not set lock on file", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "validation", err: Validation("filePath is required"), expected: KindValidation},
		{name: "not found", err: NotFound("Database not found"), expected: KindNotFound},
		{name: "engine", err: Engine(StageQuery, "Query failed", errors.New("parser")), expected: KindEngine},
		{name: "io", err: IO("read dir", errors.New("denied")), expected: KindIO},
		{name: "wrapped", err: fmt.Errorf("handler: %w", NotFound("x")), expected: KindNotFound},
		{name: "plain", err: errors.New("boom"), expected: KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.err))
		})
	}
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, StageConnect, StageOf(Engine(StageConnect, "Failed to create connection", errors.New("x"))))
	assert.Equal(t, Stage(""), StageOf(Validation("x")))
	assert.Equal(t, Stage(""), StageOf(errors.New("x")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "engine", KindEngine.String())
	assert.Equal(t, "internal", KindInternal.String())
}
