package advice

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

var (
	//go:embed prompts/purchase_order.txt
	instructionsTemplate string
	//go:embed prompts/correction.txt
	correctionTemplate string
)

// Prompt is the rendered text sent to the model.
type Prompt struct {
	// Instructions are the fixed rules, parameterized by patch and budget.
	Instructions string
	// Data is the per-request block.
	Data string
}

// BuildPrompt renders rc deterministically.
func BuildPrompt(rc RequestContext, budget int) Prompt {
	replacer := strings.NewReplacer(
		"{{PATCH}}", rc.Patch,
		"{{BUDGET}}", strconv.Itoa(budget),
		"{{TOOL}}", ToolName,
	)
	return Prompt{
		Instructions: strings.TrimSpace(replacer.Replace(instructionsTemplate)),
		Data:         buildData(rc, budget),
	}
}

func buildData(rc RequestContext, budget int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hero: %s\n", rc.Hero)
	fmt.Fprintf(&b, "Role: %s | Rank: %s\n", rc.Role, rc.Rank)
	fmt.Fprintf(&b, "Patch: %s\n", rc.Patch)
	fmt.Fprintf(&b, "Enemies: %s\n", strings.Join(rc.Enemies, ", "))

	if rc.Minute != nil {
		fmt.Fprintf(&b, "Current minute: %d\n", *rc.Minute)
		b.WriteString("Adjust phases to the minute: starting (0-5), early (<=12), mid (12-25), late (>25); situational only for matchup counters.\n")
	}
	if rc.Self != nil {
		fmt.Fprintf(&b, "My status: %s\n", formatStatus(*rc.Self))
	}
	if len(rc.EnemyStatus) > 0 {
		b.WriteString("Enemy status:\n")
		for _, es := range rc.EnemyStatus {
			fmt.Fprintf(&b, "- %s: %s\n", es.Hero, formatStatus(es.PlayerStatus))
		}
	}

	fmt.Fprintf(&b, "Goal: purchase_order [{item, why, phase}] for %s %s in this matchup.\n", rc.Hero, rc.Role)
	fmt.Fprintf(&b, "Starting budget: %d gold. If the starting items exceed %d, adjust them yourself before answering.", budget, budget)
	return b.String()
}

func formatStatus(s PlayerStatus) string {
	parts := make([]string, 0, 2)
	if s.Level != nil {
		parts = append(parts, "level "+strconv.Itoa(*s.Level))
	}
	if s.KDA != nil {
		parts = append(parts, fmt.Sprintf("K/D/A %d/%d/%d", s.KDA.K, s.KDA.D, s.KDA.A))
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ", ")
}

func correctionMessage(total, budget int) string {
	replacer := strings.NewReplacer(
		"{{TOTAL}}", strconv.Itoa(total),
		"{{OVERAGE}}", strconv.Itoa(total-budget),
		"{{BUDGET}}", strconv.Itoa(budget),
		"{{TOOL}}", ToolName,
	)
	return strings.TrimSpace(replacer.Replace(correctionTemplate))
}
