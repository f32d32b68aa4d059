// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsAllowedTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{Discovering, Extracting, true},
		{Discovering, Failed, true},
		{Discovering, Launching, false},
		{Extracting, Launching, true},
		{Launching, Walking, true},
		{Launching, Closing, false},
		{Walking, AwaitingResult, true},
		{Walking, Closing, true},
		{Walking, Reporting, false},
		{AwaitingResult, Reporting, true},
		{AwaitingResult, Closing, true},
		{Reporting, Annotating, true},
		{Reporting, Closing, true},
		{Annotating, Closing, true},
		{Annotating, Failed, false},
		{Failed, Reporting, true},
		{Failed, Closing, false},
		{Closing, Discovering, false},
		{Closing, Failed, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedTransition(tt.from, tt.to))
		})
	}
}

func TestMachineRefusesDisallowed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := newMachine(zap.New(core))

	m.to(Extracting)
	require.Equal(t, Extracting, m.state)

	m.to(Annotating)
	assert.Equal(t, Extracting, m.state)
	refused := logs.FilterMessage("state transition refused").All()
	require.Len(t, refused, 1)
	assert.Equal(t, "Annotating", refused[0].ContextMap()["to"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingResult", AwaitingResult.String())
	assert.Equal(t, "State(42)", State(42).String())
	assert.True(t, IsTerminal(Closing))
	assert.False(t, IsTerminal(Failed))
}
