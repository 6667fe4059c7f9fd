package schedule

import "fmt"

// Business hours: morning and afternoon booking windows, 30-minute steps.
const (
	morningStartHour   = 9
	morningEndHour     = 12
	afternoonStartHour = 14
	afternoonEndHour   = 18
	slotStepMinutes    = 30
)

// Slots returns the ordered list of bookable time labels for any business
// day, formatted as zero-padded HH:MM. The grid is fixed: it does not account
// for holidays or attorney-specific calendars.
func Slots() []string {
	var slots []string
	for hour := morningStartHour; hour < morningEndHour; hour++ {
		for minute := 0; minute < 60; minute += slotStepMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	for hour := afternoonStartHour; hour < afternoonEndHour; hour++ {
		for minute := 0; minute < 60; minute += slotStepMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}
