package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Run("env var set", func(t *testing.T) {
		t.Setenv("PF_TEST_HOST", "db.internal")
		assert.Equal(t, "host: db.internal", expandEnv("host: ${PF_TEST_HOST}"))
	})

	t.Run("env var set overrides default", func(t *testing.T) {
		t.Setenv("PF_TEST_HOST", "db.internal")
		assert.Equal(t, "host: db.internal", expandEnv("host: ${PF_TEST_HOST:localhost}"))
	})

	t.Run("default used when unset", func(t *testing.T) {
		assert.Equal(t, "host: localhost", expandEnv("host: ${PF_TEST_UNSET:localhost}"))
	})

	t.Run("empty default allowed", func(t *testing.T) {
		assert.Equal(t, "password: ${PF_TEST_UNSET}", expandEnv("password: ${PF_TEST_UNSET}"))
	})

	t.Run("multiple placeholders", func(t *testing.T) {
		t.Setenv("PF_A", "1")
		got := expandEnv("${PF_A}:${PF_B:2}")
		assert.Equal(t, "1:2", got)
	})
}
