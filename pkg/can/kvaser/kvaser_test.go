package kvaser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorKnownCode(t *testing.T) {
	err := newError(-3)
	assert.Equal(t, "Specified device not found (-3)", err.Error())
}

func TestNewErrorOutOfBoundsCode(t *testing.T) {
	err := newError(-5003)
	assert.Contains(t, err.Error(), "unable to get description")
}

func TestNewErrorOKIsNil(t *testing.T) {
	assert.Nil(t, newError(0))
}
