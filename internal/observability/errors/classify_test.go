package errors

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/target/recipe-finder/internal/errors"
)

func TestClassify(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Err: errors.New("refused")}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: apperrors.Upstream("down"), want: "upstream"},
		{name: "wrapped app error", err: fmt.Errorf("search: %w", apperrors.Wrap(opErr, apperrors.ErrCodeTimeout, "slow")), want: "timeout"},
		{name: "innermost type", err: fmt.Errorf("outer: %w", opErr), want: "errors_errorstring"},
		{name: "concrete type", err: fmt.Errorf("outer: %w", &net.OpError{Op: "dial"}), want: "net_operror"},
		{name: "plain", err: errors.New("x"), want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
