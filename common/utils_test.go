package common_test

import (
	"testing"

	"github.com/Carmen-Shannon/motive-go/common"
	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, common.Coalesce(0, 0, 5, 7))
	assert.Equal(t, 0, common.Coalesce(0, 0))
	assert.Equal(t, "first", common.Coalesce("first", "second"))
}
