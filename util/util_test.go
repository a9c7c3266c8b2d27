package util_test

import (
	"testing"

	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/util"
	"github.com/stretchr/testify/assert"
)

type limits struct {
	MaxSolutions int    `json:"maxSolutions" validate:"min=1"`
	Name         string `json:"name" validate:"required"`
}

func TestUtil(t *testing.T) {
	t.Run("decode weakly typed", func(t *testing.T) {
		var l limits
		assert.NoError(t, util.Decode(map[string]any{
			"maxSolutions": "12",
			"name":         "default",
		}, &l))
		assert.Equal(t, 12, l.MaxSolutions)
		assert.Equal(t, "default", l.Name)
	})
	t.Run("validate struct", func(t *testing.T) {
		assert.NoError(t, util.ValidateStruct(limits{MaxSolutions: 1, Name: "x"}))
		err := util.ValidateStruct(limits{})
		assert.Error(t, err)
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("yaml to json", func(t *testing.T) {
		bits, err := util.YAMLToJSON([]byte("name: default\nmaxSolutions: 3\n"))
		assert.NoError(t, err)
		assert.JSONEq(t, `{"name": "default", "maxSolutions": 3}`, string(bits))
	})
	t.Run("json passthrough", func(t *testing.T) {
		bits, err := util.YAMLToJSON([]byte(`{"name":"x"}`))
		assert.NoError(t, err)
		assert.Equal(t, `{"name":"x"}`, string(bits))
	})
	t.Run("json string", func(t *testing.T) {
		assert.Equal(t, `{"maxSolutions":2,"name":"a"}`, util.JSONString(limits{MaxSolutions: 2, Name: "a"}))
	})
	t.Run("to ptr", func(t *testing.T) {
		assert.Equal(t, 5, *util.ToPtr(5))
	})
}
