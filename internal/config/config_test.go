package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
qanalytics:
  user: WS_test
  password: "$$WS17"
  timezone: America/Santiago
  host: localhost:8080
request:
  method: PING
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetConfig(t *testing.T) {
	cnf := &Conf{}
	require.NoError(t, GetConfig(writeConfig(t, sample), cnf))

	assert.Equal(t, "WS_test", cnf.QAnalytics.User)
	assert.Equal(t, "$$WS17", cnf.QAnalytics.Password)
	assert.Equal(t, "PING", cnf.Request.Method)
	assert.Equal(t, DefaultEndpoint, cnf.Request.Endpoint)
	assert.Equal(t, DefaultListen, cnf.Mock.Listen)

	params := cnf.ClientParams()
	assert.Equal(t, "America/Santiago", params.Timezone)
	assert.Equal(t, "localhost:8080", params.Host)
	assert.Empty(t, params.Protocol)
}

func TestGetConfigMissingFile(t *testing.T) {
	cnf := &Conf{}
	err := GetConfig(filepath.Join(t.TempDir(), "absent.yml"), cnf)

	require.Error(t, err)
	assert.True(t, IsNotExist(err))
	assert.Equal(t, DefaultMethod, cnf.Request.Method)
}

func TestGetConfigInvalid(t *testing.T) {
	cnf := &Conf{}
	err := GetConfig(writeConfig(t, "qanalytics: [1, 2"), cnf)

	require.Error(t, err)
	assert.False(t, IsNotExist(err))
}
