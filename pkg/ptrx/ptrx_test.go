package ptrx_test

import (
	"testing"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/ptrx"
	"github.com/stretchr/testify/assert"
)

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, "x", *ptrx.To("x"))
	assert.Equal(t, "", ptrx.Value[string](nil))
	assert.Equal(t, 3, ptrx.Value(ptrx.To(3)))
	assert.Nil(t, ptrx.NonZero(""))
	assert.Equal(t, "mid", *ptrx.NonZero("mid"))
}
