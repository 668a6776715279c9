package emergency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusOpen, StatusClaimed, true},
		{StatusOpen, StatusCancelled, true},
		{StatusOpen, StatusCompleted, false},
		{StatusClaimed, StatusCompleted, true},
		{StatusClaimed, StatusCancelled, true},
		{StatusClaimed, StatusOpen, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusClaimed, false},
		{StatusCancelled, StatusClaimed, false},
		{StatusCancelled, StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusClaimed.Valid())
	assert.False(t, Status("pending").Valid())
}
