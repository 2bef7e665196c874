package util

import "fmt"

// HumanReadableSize formats a byte count using binary units, capping at TB.
func HumanReadableSize(size int64) string {
	if size < 1024 && size > -1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB", "TB"}
	value := float64(size) / 1024
	unit := units[0]

	for i := 1; i < len(units); i++ {
		if value < 1024 && value > -1024 {
			break
		}
		value /= 1024
		unit = units[i]
	}

	return fmt.Sprintf("%.1f %s", value, unit)
}
