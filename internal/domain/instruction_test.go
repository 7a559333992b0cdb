package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderInstructionUSSD(t *testing.T) {
	ins := RenderInstruction(ModeUSSD, "alice@bank", decimal.NewFromInt(100))

	require.Equal(t, ModeUSSD, ins.Type)
	require.Len(t, ins.Steps, 7)
	require.Contains(t, ins.Steps[2], "alice@bank")
	require.Contains(t, ins.Steps[3], "₹100")
	require.Equal(t, strings.Join(ins.Steps, "\n"), ins.Message)
}

func TestRenderInstructionIVR(t *testing.T) {
	ins := RenderInstruction(ModeIVR, "bob@upi", decimal.NewFromInt(250))

	require.Equal(t, ModeIVR, ins.Type)
	require.Len(t, ins.Steps, 7)
	require.Contains(t, ins.Steps[3], "bob@upi")
	require.Contains(t, ins.Steps[4], "₹250")
	require.NotEqual(t, RenderInstruction(ModeUSSD, "bob@upi", decimal.NewFromInt(250)).Steps, ins.Steps)
}

func TestRenderInstructionDeterministic(t *testing.T) {
	a := RenderInstruction(ModeUSSD, "alice@bank", decimal.NewFromInt(100))
	b := RenderInstruction(ModeUSSD, "alice@bank", decimal.NewFromInt(100))

	require.Equal(t, a, b)
	require.Equal(t, a.Message, b.Message)
}

func TestRenderInstructionAmountPlainDecimal(t *testing.T) {
	amount := decimal.RequireFromString("99.50")
	ins := RenderInstruction(ModeUSSD, "alice@bank", amount)

	require.Contains(t, ins.Steps[3], "₹99.5")
}
