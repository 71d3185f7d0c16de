package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinalStatus(t *testing.T) {
	now := time.Now()
	approved := Approved("rev-1", now, nil)
	rejected := Rejected("rev-2", now, nil)
	pending := NewPending()

	tests := []struct {
		name   string
		level1 Level
		level2 Level
		want   Status
	}{
		{"both pending", pending, pending, StatusPending},
		{"level1 approved only", approved, pending, StatusPending},
		{"level2 approved only", pending, approved, StatusPending},
		{"both approved", approved, approved, StatusApproved},
		{"level1 rejected", rejected, pending, StatusRejected},
		{"level2 rejected", pending, rejected, StatusRejected},
		{"level1 rejected after level2 approved", rejected, approved, StatusRejected},
		{"both rejected", rejected, rejected, StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FinalStatus(tt.level1, tt.level2))
		})
	}
}

func TestLevelConstructors(t *testing.T) {
	now := time.Now()
	comment := "looks fine"

	l := Approved("rev-1", now, &comment)
	assert.Equal(t, StatusApproved, l.Status)
	assert.Equal(t, "rev-1", *l.ReviewerID)
	assert.Equal(t, now, *l.ReviewedAt)
	assert.Equal(t, "looks fine", *l.Comment)
	assert.False(t, l.IsPending())

	p := NewPending()
	assert.True(t, p.IsPending())
	assert.Nil(t, p.ReviewerID)
	assert.Nil(t, p.ReviewedAt)
	assert.Nil(t, p.Comment)
}
