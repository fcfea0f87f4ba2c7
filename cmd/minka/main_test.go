package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/adapter/fake"
	"github.com/radio-control/minka/internal/audit"
	"github.com/radio-control/minka/internal/config"
	"github.com/radio-control/minka/internal/radio"
)

type harness struct {
	stdout, stderr bytes.Buffer
	radio          *fake.FakeRadio
	opened         int
	app            *app
}

// newHarness runs the CLI with the emulator backend replaced by a fake radio.
func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	for _, key := range []string{"MINKA_RADIO_BACKEND", "MINKA_PROFILE", "MINKA_SW8", "MINKA_SW9", "MINKA_AUDIT_ENABLED"} {
		t.Setenv(key, "")
	}

	h := &harness{radio: fake.NewFakeRadio()}
	h.app = &app{
		stdout: &h.stdout,
		stderr: &h.stderr,
		newManager: func(log logrus.FieldLogger) *radio.Manager {
			m := radio.NewManager(log)
			m.Register(config.BackendEmulator, func(*config.Config, logrus.FieldLogger) (adapter.Radio, error) {
				h.opened++
				return h.radio, nil
			})
			return m
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.run(append([]string{"--radio", "emulator"}, args...))
}

func TestRunSendsCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run("--cmd", "off")
	require.Equal(t, exitOK, code, h.stderr.String())

	frames := h.radio.Transmitted()
	require.Len(t, frames, 8)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0x49, 0x24, 0x96, 0xD9, 0x64}, frames[0])
	assert.True(t, h.radio.Closed())
	assert.Contains(t, h.stderr.String(), "sending command")
	assert.NotContains(t, h.stderr.String(), "encoded packet")
}

func TestRunDebugAndSwitches(t *testing.T) {
	h := newHarness(t)

	code := h.run("--cmd", "off", "--debug", "--max", "--sw8", "110110110110", "--sw9", "0000")
	require.Equal(t, exitOK, code, h.stderr.String())

	assert.Equal(t, []byte{0x5B, 0x6C, 0x92, 0x59, 0x64}, h.radio.Transmitted()[0][5:])
	assert.Equal(t, 1, h.radio.Count(adapter.OpSetMaxPower))
	assert.Contains(t, h.stderr.String(), "encoded packet")
	assert.Contains(t, h.stderr.String(), "level=debug")
}

func TestRunProfileAndFrequency(t *testing.T) {
	h := newHarness(t)

	code := h.run("--cmd", "light", "--profile", "single", "--freq", "304250000")
	require.Equal(t, exitOK, code, h.stderr.String())

	hz, _, _, _, _, _ := h.radio.Settings()
	assert.Equal(t, int64(304_250_000), hz)
	assert.Equal(t, []byte{0x49, 0x24, 0x96, 0xCB, 0x2C}, h.radio.Transmitted()[0][5:])
}

func TestRunInvalidCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown", []string{"--cmd", "reverse"}},
		{"light2 on single", []string{"--cmd", "light2", "--profile", "single"}},
		{"case sensitive", []string{"--cmd", "OFF"}},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, exitUsage, h.run(tt.args...))
			assert.Zero(t, h.opened, "radio must not be opened")
			assert.Empty(t, h.radio.Calls())
			assert.Contains(t, h.stderr.String(), "level=error")
		})
	}
}

func TestRunInvalidSwitch(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitUsage, h.run("--cmd", "off", "--sw8", "01001001001"))
	assert.Zero(t, h.opened)
}

func TestRunBadFlags(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitUsage, h.app.run([]string{"--bogus"}))
	assert.Equal(t, exitUsage, h.app.run([]string{"--cmd", "off", "extra"}))
	assert.Equal(t, exitOK, h.app.run([]string{"-h"}))
}

func TestRunList(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, exitOK, h.run("--list", "--profile", "dual"))
	assert.Equal(t, "off\nslow\nmedium\nfast\nlight\nlight1\nlight2\n", h.stdout.String())
	assert.Zero(t, h.opened)
}

func TestRunTransmitFailure(t *testing.T) {
	h := newHarness(t)
	h.radio.SetErrorSimulation(adapter.OpTransmitRaw, 2)

	assert.Equal(t, exitFailure, h.run("--cmd", "fast"))
	assert.Len(t, h.radio.Transmitted(), 1)
	assert.Equal(t, 1, h.radio.Count(adapter.OpSetIdle))
	assert.Equal(t, 1, h.radio.Count(adapter.OpCleanup))
	assert.Contains(t, h.stderr.String(), "transmission failed")
}

func TestRunConfigFileAndAudit(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	auditDir := filepath.Join(dir, "audit")
	path := filepath.Join(dir, "minka.yaml")
	yaml := "radio:\n  backend: emulator\n  profile: dual\nswitches:\n  sw9: \"0011\"\naudit:\n  enabled: true\n  dir: " + auditDir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	code := h.app.run([]string{"--config", path, "--cmd", "light2"})
	require.Equal(t, exitOK, code, h.stderr.String())

	f, err := os.Open(filepath.Join(auditDir, audit.FileName))
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var e audit.Entry
	require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
	assert.Equal(t, "light2", e.Command)
	assert.Equal(t, "dual", e.Profile)
	assert.Equal(t, 8, e.Attempts)
	assert.Equal(t, "SUCCESS", e.Code)
	assert.True(t, strings.HasSuffix(e.Frame, "492496d92c"), e.Frame)
}

func TestRunBadConfigFile(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitUsage, h.app.run([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--cmd", "off"}))
}
