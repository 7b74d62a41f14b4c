package mutate

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/phone"
)

// moscow is UTC+3 year-round.
var moscow = time.FixedZone("MSK", 3*60*60)

const (
	timestampLayout = "02.01.2006, 15:04:05"
	noteSource      = "🔍 Источник: SpravPortal API"
)

// FormatSpamNote renders the note attached to leads classified as spam.
func FormatSpamNote(v model.Verdict, at time.Time) string {
	var b strings.Builder
	b.WriteString("🚫 СПАМ-НОМЕР ОБНАРУЖЕН\n\n")
	fmt.Fprintf(&b, "📞 Номер: %s\n", phone.Format(v.Phone))
	if v.Schema == model.SchemaScore {
		fmt.Fprintf(&b, "⛔ Оценка спама: %d%% (ЗАБЛОКИРОВАТЬ)\n", v.Score)
	} else {
		fmt.Fprintf(&b, "⛔ Статус: %s (ЗАБЛОКИРОВАТЬ)\n", v.Action)
	}
	fmt.Fprintf(&b, "📁 Категория: %s\n", v.CategoryName)
	writeDetails(&b, v)
	writeFooter(&b, at)
	return b.String()
}

// FormatCleanNote renders the note attached to leads that passed the check.
func FormatCleanNote(v model.Verdict, at time.Time) string {
	var b strings.Builder
	b.WriteString("✅ НОМЕР ПРОВЕРЕН\n\n")
	fmt.Fprintf(&b, "📞 Номер: %s\n", phone.Format(v.Phone))
	fmt.Fprintf(&b, "📊 Оценка спама: %d%%\n", v.Score)
	writeDetails(&b, v)
	writeFooter(&b, at)
	return b.String()
}

func writeDetails(b *strings.Builder, v model.Verdict) {
	if v.Organization != nil {
		fmt.Fprintf(b, "🏢 Организация: %s\n", *v.Organization)
	}
	if v.Region != nil {
		fmt.Fprintf(b, "📍 Регион: %s\n", *v.Region)
	}
	if v.Operator != nil {
		fmt.Fprintf(b, "📱 Оператор: %s\n", *v.Operator)
	}
}

func writeFooter(b *strings.Builder, at time.Time) {
	fmt.Fprintf(b, "\n⏰ Проверено: %s\n", at.In(moscow).Format(timestampLayout))
	b.WriteString(noteSource)
}

// SpamName returns the new lead name for a spam lead, and false when the
// name already carries the spam marker.
func SpamName(current, digits string) (string, bool) {
	if HasSpamMarker(current) {
		return current, false
	}
	return fmt.Sprintf("СПАМ: %s (%s)", phone.Format(digits), current), true
}

// HasSpamMarker reports whether a lead name was already marked.
func HasSpamMarker(name string) bool {
	return strings.HasPrefix(name, "СПАМ:") || strings.HasPrefix(name, "СПАМ :")
}
