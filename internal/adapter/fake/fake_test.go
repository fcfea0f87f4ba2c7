package fake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/adaptertest"
)

// TestFakeRadioConformance runs the conformance suite on the fake radio.
func TestFakeRadioConformance(t *testing.T) {
	adaptertest.RunConformance(t, func() adapter.Radio {
		return NewFakeRadio()
	}, adaptertest.Capabilities{
		Name:        "fake",
		FrequencyHz: 304_300_000,
	})
}

func TestFakeRadioRecordsCalls(t *testing.T) {
	f := NewFakeRadio()
	ctx := context.Background()

	require.NoError(t, f.SetFrequency(ctx, 304_300_000))
	require.NoError(t, f.SetDataRate(ctx, 2400))
	require.NoError(t, f.TransmitRaw(ctx, []byte{1, 2, 3}))
	require.NoError(t, f.SetIdle(ctx))
	require.NoError(t, f.Cleanup())

	assert.Equal(t, []string{
		adapter.OpSetFrequency,
		adapter.OpSetDataRate,
		adapter.OpTransmitRaw,
		adapter.OpSetIdle,
		adapter.OpCleanup,
	}, f.Ops())
	assert.Equal(t, [][]byte{{1, 2, 3}}, f.Transmitted())
	assert.True(t, f.Closed())

	hz, baud, _, _, _, maxPower := f.Settings()
	assert.Equal(t, int64(304_300_000), hz)
	assert.Equal(t, 2400, baud)
	assert.False(t, maxPower)
}

func TestFakeRadioFailOnNthCall(t *testing.T) {
	f := NewFakeRadio()
	ctx := context.Background()
	boom := errors.New("boom")
	f.FailOn(adapter.OpTransmitRaw, 2, boom)

	assert.NoError(t, f.TransmitRaw(ctx, []byte{1}))
	assert.ErrorIs(t, f.TransmitRaw(ctx, []byte{2}), boom)
	assert.NoError(t, f.TransmitRaw(ctx, []byte{3}))

	assert.Equal(t, 3, f.Count(adapter.OpTransmitRaw))
	assert.Equal(t, [][]byte{{1}, {3}}, f.Transmitted())

	f.DisableErrorSimulation()
	f.SetErrorSimulation(adapter.OpSetIdle, 1)
	assert.Error(t, f.SetIdle(ctx))
}

func TestFakeRadioCopiesFrames(t *testing.T) {
	f := NewFakeRadio()
	data := []byte{0xaa}
	require.NoError(t, f.TransmitRaw(context.Background(), data))
	data[0] = 0x00
	assert.Equal(t, byte(0xaa), f.Transmitted()[0][0])
}
