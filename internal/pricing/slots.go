package pricing

import "fmt"

const (
	firstSlotHour = 9
	slotCount     = 20
)

// TimeSlots lists the pick-up and return times offered by the agency,
// every half hour from 09:00 to 18:30.
func TimeSlots() []string {
	slots := make([]string, 0, slotCount)
	for i := 0; i < slotCount; i++ {
		hour := i/2 + firstSlotHour
		minute := "00"
		if i%2 == 1 {
			minute = "30"
		}
		slots = append(slots, fmt.Sprintf("%02d:%s", hour, minute))
	}
	return slots
}
