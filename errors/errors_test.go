package errors_test

import (
	"fmt"
	"testing"

	"github.com/autom8ter/allpaths/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("wrap nil error", func(t *testing.T) {
		var err error
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Nil(t, err)
	})
	t.Run("wrap error", func(t *testing.T) {
		var err = fmt.Errorf("not found")
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("new error", func(t *testing.T) {
		err := errors.New(errors.HintDoesNotExist, "hint %s does not exist", "$**")
		assert.Equal(t, errors.HintDoesNotExist, errors.Extract(err).Code)
		assert.True(t, errors.Is(err, errors.HintDoesNotExist))
		assert.False(t, errors.Is(err, errors.NotFound))
	})
	t.Run("new error then wrap", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("new error then wrap then remove", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		e := errors.Extract(err).RemoveError()
		assert.Empty(t, e.Err)
	})
	t.Run("error json string", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		e := errors.Extract(err).RemoveError()
		assert.JSONEq(t, `{ "code":404, "messages": ["not found"]}`, e.Error())
	})
	t.Run("extract foreign error", func(t *testing.T) {
		err := fmt.Errorf("boom")
		assert.Equal(t, errors.Code(0), errors.Extract(err).Code)
		assert.False(t, errors.Is(err, errors.Internal))
	})
}
