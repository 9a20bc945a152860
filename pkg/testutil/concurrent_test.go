package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"carehub/internal/sentinel"
	dErrors "carehub/pkg/domain-errors"
)

func TestRunConcurrent_Buckets(t *testing.T) {
	result := RunConcurrent(9, func(i int) error {
		switch i % 3 {
		case 0:
			return nil
		case 1:
			return fmt.Errorf("store: %w", sentinel.ErrAlreadyExists)
		default:
			if i == 2 {
				return dErrors.New(dErrors.CodeConflict, "already enrolled")
			}
			return errors.New("disk full")
		}
	})

	assert.Equal(t, int32(3), result.Successes)
	assert.Equal(t, int32(4), result.Conflicts)
	assert.Equal(t, int32(2), result.Errors)
	assert.Equal(t, int32(9), result.Total())
}
