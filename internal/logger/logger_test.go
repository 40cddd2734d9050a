package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	log.SetOutput(buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
	})
	return buf
}

func TestDebugIsGated(t *testing.T) {
	buf := captureLog(t)

	SetDebug(false)
	Debug("hidden")
	assert.Empty(t, buf.String())

	SetDebug(true)
	Debug("---> request", map[string]int{"status": 200})
	assert.Contains(t, buf.String(), "[DEBUG] ---> request")
	assert.Contains(t, buf.String(), `"status": 200`)
}

func TestLevels(t *testing.T) {
	buf := captureLog(t)

	Info("starting")
	Warning("careful")
	Event("sent")

	out := buf.String()
	assert.Contains(t, out, "[INFO] starting")
	assert.Contains(t, out, "[WARNING] careful")
	assert.Contains(t, out, "[EVENT] sent")
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "log.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"logging:\n  enabled: true\n  directory: "+dir+"\n  filename_format: test\n"+
			"color:\n  no_color: true\n"), 0o600))

	f := InitLogger(true, cfg)
	require.NotNil(t, f)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
		_ = f.Close()
	})

	assert.True(t, IsDebug())
	Info("to file")

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[QANALYTICS] ")
	assert.Contains(t, string(data), "[INFO] to file")
}

func TestInitLoggerMissingSettings(t *testing.T) {
	buf := captureLog(t)

	assert.Nil(t, InitLogger(false, filepath.Join(t.TempDir(), "absent.yml")))
	assert.False(t, IsDebug())
	assert.Contains(t, buf.String(), "Log settings not found")
}

func TestCritExits(t *testing.T) {
	buf := captureLog(t)

	exited := false
	saved := exit
	exit = func() { exited = true }
	t.Cleanup(func() { exit = saved })

	Crit("Error while loading config! ", "bad yaml")

	assert.True(t, exited)
	assert.Contains(t, buf.String(), "Critical error: Error while loading config! bad yaml")
}
