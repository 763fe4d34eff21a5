package manager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/value"
)

const ticksPerSecond = 100

// FormatTimeticks renders a tick count with its human-readable breakdown,
// e.g. "8640000 (1 days)".
func FormatTimeticks(ticks uint32) string {
	totalSeconds := float64(ticks) / ticksPerSecond
	days := int(totalSeconds / 86400)
	hours := int(totalSeconds) % 86400 / 3600
	minutes := int(totalSeconds) % 3600 / 60
	seconds := totalSeconds - float64(int(totalSeconds)/60*60)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%.2f seconds", seconds))
	}
	return fmt.Sprintf("%d (%s)", ticks, strings.Join(parts, ", "))
}

// FormatValue renders a value for display: timeticks get the uptime
// breakdown, counters get thousands separators, everything else is printed
// as-is.
func FormatValue(v value.Value) string {
	switch v.Type() {
	case value.TypeTimeTicks:
		return FormatTimeticks(v.Uint())
	case value.TypeCounter:
		return groupThousands(strconv.FormatUint(uint64(v.Uint()), 10))
	default:
		return v.String()
	}
}

// FormatBinding renders one "oid = value" result line.
func FormatBinding(b pdu.Binding) string {
	return fmt.Sprintf("%s = %s", b.OID, FormatValue(b.Value))
}

// FormatStatus converts a response status to a human-readable message.
func FormatStatus(s pdu.Status) string {
	switch s {
	case pdu.StatusSuccess:
		return "Success"
	case pdu.StatusNoSuchOID:
		return "No such OID exists"
	case pdu.StatusBadValue:
		return "Bad value for OID type"
	case pdu.StatusReadOnly:
		return "OID is read-only"
	default:
		return fmt.Sprintf("Unknown error (%d)", uint8(s))
	}
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
