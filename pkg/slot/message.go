package slot

import (
	"strconv"
	"strings"
)

// DefaultMessage is used when a slot is registered without a template.
const DefaultMessage = "🎲 {slotName}: rolled {rolls} (best {best}, {diceCount}d)"

// Render substitutes the {rolls}, {best}, {diceCount} and {slotName}
// placeholders in tmpl. Rolls render comma separated.
func Render(tmpl string, rolls []int, best, diceCount int, name string) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}

	return strings.NewReplacer(
		"{rolls}", strings.Join(parts, ", "),
		"{best}", strconv.Itoa(best),
		"{diceCount}", strconv.Itoa(diceCount),
		"{slotName}", name,
	).Replace(tmpl)
}
