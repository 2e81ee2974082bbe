package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Rejected("coupon_min_purchase", "compra mínima no alcanzada")

func TestIsMatchesByCodeNotMessage(t *testing.T) {
	err := errSample.WithMessage("La compra mínima para este cupón es $50.000")

	assert.True(t, errors.Is(err, errSample))
	assert.True(t, errors.Is(fmt.Errorf("ctx: %w", err), errSample))
	assert.False(t, errors.Is(err, Rejected("coupon_expired", "x")))
	assert.Equal(t, "compra mínima no alcanzada", errSample.Message, "sentinel must not be mutated")
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, Internal)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("order_not_found", "no existe")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", Conflict("dup", "dup"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, "rejected", KindRejected.String())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Validation("v", "v"):     400,
		Rejected("r", "r"):       422,
		NotFound("n", "n"):       404,
		Conflict("c", "c"):       409,
		Unauthorized("u", "u"):   401,
		Forbidden("f", "f"):      403,
		Internal.Wrap(errSample): 500,
	}
	for err, status := range cases {
		assert.Equal(t, status, HTTPStatus(err), err.Code)
	}
	assert.Equal(t, 500, HTTPStatus(errors.New("boom")))
}

func TestPublicHidesInternalDetail(t *testing.T) {
	code, msg := Public(errors.New("pq: relation \"orders\" does not exist"))
	assert.Equal(t, Internal.Code, code)
	assert.Equal(t, Internal.Message, msg)

	code, msg = Public(errSample)
	assert.Equal(t, "coupon_min_purchase", code)
	assert.Equal(t, "compra mínima no alcanzada", msg)
}
