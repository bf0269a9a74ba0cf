package usecase

import (
	"fmt"
	"strings"

	"redcrm-backend/internal/domain/model"
)

// Plain fmt-based message bodies. A real templating layer is deliberately
// outside this service; these renderers produce the default texts the office
// sends when none is supplied.

func formatCurrency(amount int64, usd bool) string {
	if usd {
		return fmt.Sprintf("%d USD", amount)
	}
	return fmt.Sprintf("%d UZS", amount)
}

func renderContract(e *model.Event) string {
	var b strings.Builder
	b.WriteString("Your booking is confirmed.\n")
	for _, d := range e.Devices {
		line := "- " + d.ServiceName
		if d.ServiceDate != nil {
			line += " on " + d.ServiceDate.Format("02.01.2006")
		}
		if d.Restaurant != "" {
			line += " at '" + d.Restaurant + "'"
		}
		if d.CameraCount > 0 {
			line += fmt.Sprintf(" (%d cameras)", d.CameraCount)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "Total: %s, advance: %s.",
		formatCurrency(e.Amount, e.AmountUSD), formatCurrency(e.Advance, e.AdvanceUSD))
	return b.String()
}

func renderAdvanceNotice(e *model.Event) string {
	remaining := e.Amount - e.Advance
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("Advance received: %s. Remaining balance: %s.",
		formatCurrency(e.Advance, e.AdvanceUSD), formatCurrency(remaining, e.AmountUSD))
}

func renderWorkerReminder(d *model.Device) string {
	msg := "Reminder: you are assigned to " + d.ServiceName
	if d.Restaurant != "" {
		msg += " at '" + d.Restaurant + "'"
	}
	return msg + " tomorrow."
}
