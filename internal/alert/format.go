package alert

import (
	"fmt"
	"strings"

	"github.com/bluenet-io/bluenet/internal/model"
)

// FormatMessage renders the human-readable alert text for a boundary
// violation decision.
func FormatMessage(rec model.DecisionRecord) string {
	var b strings.Builder
	b.WriteString("MARITIME BOUNDARY VIOLATION ALERT\n")
	b.WriteString(fmt.Sprintf("Position: %.6f, %.6f\n", rec.Latitude, rec.Longitude))
	if rec.DistanceKnown {
		b.WriteString(fmt.Sprintf("Distance from boundary: %.0f m\n", rec.DistanceMeters))
	} else {
		b.WriteString("Distance from boundary: unknown (no reference line)\n")
	}
	b.WriteString(fmt.Sprintf("Time: %s UTC\n", rec.Timestamp.UTC().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Session: %s | Crossing #%d\n", rec.SessionID, rec.TotalCrossings))
	b.WriteString("IMMEDIATE RESPONSE REQUIRED")
	return b.String()
}
