package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	tmpls, err := loadTemplates()
	require.NoError(t, err)

	t.Run("shifts created", func(t *testing.T) {
		body := []byte(`{"type":"shifts_created","to":"ivan@example.com","data":{"name":"Иван","title":"Грузчик","dates":["2024-05-01","2024-05-02"],"total":2}}`)
		m, err := tmpls.buildMessage("noreply@example.com", body)
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("partially created", func(t *testing.T) {
		body := []byte(`{"type":"shifts_partially_created","to":"ivan@example.com","data":{"title":"Грузчик","dates":["2024-05-01"],"total":3,"failedDate":"2024-05-02","error":"slot limit reached"}}`)
		m, err := tmpls.buildMessage("noreply@example.com", body)
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := tmpls.buildMessage("noreply@example.com", []byte(`{"type":"create_user","to":"ivan@example.com","data":{}}`))
		assert.True(t, errors.Is(err, errUnsupportedType))
	})

	t.Run("broken payload", func(t *testing.T) {
		_, err := tmpls.buildMessage("noreply@example.com", []byte(`not json`))
		require.Error(t, err)
		assert.False(t, errors.Is(err, errUnsupportedType))
	})

	t.Run("bad recipient", func(t *testing.T) {
		_, err := tmpls.buildMessage("noreply@example.com", []byte(`{"type":"shifts_created","to":"not an address","data":{}}`))
		assert.Error(t, err)
	})
}
