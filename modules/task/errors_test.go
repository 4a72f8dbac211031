package task

import (
	"errors"
	"fmt"
	"testing"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		check    func(t *testing.T, rebuilt error)
	}{
		{
			name:     "user not found",
			err:      fmt.Errorf("wrapped: %w", &domain.UserNotFoundError{ID: 4}),
			wantCode: CodeUserNotFound,
			check: func(t *testing.T, rebuilt error) {
				var userErr *domain.UserNotFoundError
				require.ErrorAs(t, rebuilt, &userErr)
				assert.Equal(t, int64(4), userErr.ID)
			},
		},
		{
			name:     "task not found",
			err:      &domain.TaskNotFoundError{ID: 8},
			wantCode: CodeTaskNotFound,
			check: func(t *testing.T, rebuilt error) {
				var taskErr *domain.TaskNotFoundError
				require.ErrorAs(t, rebuilt, &taskErr)
				assert.Equal(t, int64(8), taskErr.ID)
				assert.ErrorIs(t, rebuilt, domain.ErrReferenceNotFound)
			},
		},
		{
			name:     "invalid status",
			err:      fmt.Errorf("%w: %q", domain.ErrInvalidStatus, "archived"),
			wantCode: CodeInvalidStatus,
			check: func(t *testing.T, rebuilt error) {
				assert.ErrorIs(t, rebuilt, domain.ErrInvalidStatus)
				assert.Contains(t, rebuilt.Error(), "archived")
			},
		},
		{
			name:     "invalid argument",
			err:      fmt.Errorf("%w: unknown scope %q", ErrInvalidArgument, "everything"),
			wantCode: CodeInvalidArgument,
			check: func(t *testing.T, rebuilt error) {
				assert.ErrorIs(t, rebuilt, ErrInvalidArgument)
				assert.Equal(t, `invalid argument: unknown scope "everything"`, rebuilt.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcErr := newServiceError(tt.err)
			require.NotNil(t, svcErr)
			assert.Equal(t, tt.wantCode, svcErr.Code)
			tt.check(t, svcErr.Err())
		})
	}
}

func TestNewServiceErrorIgnoresInfrastructureErrors(t *testing.T) {
	assert.Nil(t, newServiceError(errors.New("disk full")))

	var nilErr *ServiceError
	assert.NoError(t, nilErr.Err())
}

func TestServiceErrorUnknownCode(t *testing.T) {
	err := (&ServiceError{Code: "teapot", Message: "short and stout"}).Err()
	assert.EqualError(t, err, "short and stout")
}
