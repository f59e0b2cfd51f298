package apperror

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation", Validation("bio too long"), KindValidation},
		{"constraint", Constraint(ConstraintUsername, nil), KindConstraint},
		{"not found", NotFound("channel %s", "c1"), KindNotFound},
		{"transient", Transient(fmt.Errorf("socket closed"), "find channel"), KindTransient},
		{"plain error", fmt.Errorf("boom"), KindTransient},
		{"wrapped", errors.Wrap(NotFound("request"), "resolve"), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestConstraintOf(t *testing.T) {
	err := errors.Wrap(Constraint(ConstraintDMPair, fmt.Errorf("E11000")), "upsert")
	assert.Equal(t, ConstraintDMPair, ConstraintOf(err))
	assert.Empty(t, ConstraintOf(Validation("x")))
}

func TestPublicMessage(t *testing.T) {
	// 基礎設施錯誤不得洩露原因
	err := Transient(fmt.Errorf("mongo: connection refused"), "find user")
	assert.Equal(t, "internal error", PublicMessage(err))
	assert.Equal(t, "not found", PublicMessage(NotFound("channel c1 for user u1")))
	assert.Equal(t, "bio too long", PublicMessage(Validation("bio too long")))
	assert.Equal(t, "username already exists", PublicMessage(Constraint(ConstraintUsername, nil)))
}
