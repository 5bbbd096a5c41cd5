package reconerror

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestReconError(t *testing.T) {
	err := New(ErrParse, "malformed document", nil)
	assert.Equal(t, "PARSE_ERROR: malformed document", err.Error())
	assert.True(t, HasCode(err, ErrParse))
	assert.False(t, HasCode(err, ErrUnsupportedFormat))
}

func TestHasCodeOnForeignError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), ErrParse))
	assert.False(t, HasCode(nil, ErrParse))
}
