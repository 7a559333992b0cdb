package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Instruction is the channel-specific step sequence shown to the payer.
type Instruction struct {
	Type    PaymentMode `json:"type"`
	Steps   []string    `json:"steps"`
	Message string      `json:"message"`
}

// RenderInstruction produces the fixed step sequence for the given channel,
// with the payee VPA and amount interpolated verbatim. Pure; identical
// inputs yield byte-identical output.
func RenderInstruction(mode PaymentMode, payeeVpa string, amount decimal.Decimal) Instruction {
	rupees := "₹" + amount.String()

	var steps []string
	switch mode {
	case ModeIVR:
		steps = []string{
			"Call 080-4516-3666 from your registered mobile number.\n(SBI, HDFC, ICICI, Axis, IDFC First)\nOr call 6366-200-200 (Canara, PNB, NSDL)",
			"Select your preferred language.",
			"Choose \"Money Transfer\" or \"Send Money\".",
			"Enter recipient mobile number or UPI ID: " + payeeVpa,
			"Enter amount: " + rupees,
			"Enter your UPI PIN using the keypad to authorize.",
			"You will hear a confirmation and receive an SMS.",
		}
	default:
		steps = []string{
			"Dial *99# from the SIM linked to your bank account.",
			"Select Option 1 → \"Send Money\".",
			"Choose \"UPI ID\" and enter: " + payeeVpa,
			"Enter amount: " + rupees,
			"Enter a remark or press 1 to skip.",
			"Enter your UPI PIN to authorize the payment.",
			"You will see a confirmation message and receive an SMS.",
		}
	}

	return Instruction{
		Type:    mode,
		Steps:   steps,
		Message: strings.Join(steps, "\n"),
	}
}
