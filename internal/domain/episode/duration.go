package episode

import "fmt"

// FormatDuration formats whole seconds as HH:MM:SS.
// Hours are not wrapped, so very long inputs render as e.g. "100:00:00".
// Negative input formats as zero.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
