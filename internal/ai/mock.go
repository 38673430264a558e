package ai

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/abhishekrajput-web/task-management-application/internal/tasks"
)

const noTasksSuggestion = `🎯 **No Tasks Yet**

• Start by creating your first task to get organized
• Break down large goals into smaller, actionable tasks
• Use priorities to focus on what matters most

💡 **Productivity Tip**: Start with the most important task each morning when your energy is highest.`

func filterTasks(list []tasks.Task, keep func(tasks.Task) bool) []tasks.Task {
	var out []tasks.Task
	for _, t := range list {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func byStatus(status string) func(tasks.Task) bool {
	return func(t tasks.Task) bool { return t.Status == status }
}

func byPriority(list []tasks.Task, priority string) []tasks.Task {
	return filterTasks(list, func(t tasks.Task) bool { return t.Priority == priority })
}

func sortedByPriorityDesc(list []tasks.Task) []tasks.Task {
	out := append([]tasks.Task(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return tasks.PriorityRank(out[i].Priority) > tasks.PriorityRank(out[j].Priority)
	})
	return out
}

func sortedByDueAsc(list []tasks.Task) []tasks.Task {
	out := append([]tasks.Task(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// mockSuggestion is the rule-based substitute for the general productivity
// suggestion. Buckets: overdue, then high, medium, low priority; ties break
// by priority in the overdue bucket and by nearest due date elsewhere.
func mockSuggestion(all []tasks.Task, now time.Time) Envelope {
	n := len(all)
	if n == 0 {
		return Envelope{
			Success:    true,
			Suggestion: noTasksSuggestion,
			Source:     SourceMock,
			TaskCount:  &n,
		}
	}

	pending := filterTasks(all, byStatus(tasks.StatusPending))
	completed := filterTasks(all, byStatus(tasks.StatusCompleted))
	overdue := filterTasks(pending, func(t tasks.Task) bool { return t.DueDate.Before(now) })
	high := byPriority(pending, tasks.PriorityHigh)
	medium := byPriority(pending, tasks.PriorityMedium)
	low := byPriority(pending, tasks.PriorityLow)

	var b strings.Builder
	b.WriteString("🎯 **AI Productivity Analysis**\n\n")

	switch {
	case len(overdue) > 0:
		urgent := sortedByPriorityDesc(overdue)[0]
		fmt.Fprintf(&b, "⚠️ **URGENT: Work on \"%s\" FIRST**\n", urgent.Title)
		b.WriteString("• Reason: This task is overdue and needs immediate attention\n")
		fmt.Fprintf(&b, "• Priority: %s\n", urgent.Priority)
		fmt.Fprintf(&b, "• Was due: %s\n\n", urgent.DueDate.Format("1/2/2006"))
	case len(high) > 0:
		next := sortedByDueAsc(high)[0]
		fmt.Fprintf(&b, "🎯 **Start with \"%s\"**\n", next.Title)
		b.WriteString("• Reason: High priority with upcoming deadline\n")
		fmt.Fprintf(&b, "• Due: %s\n\n", next.DueDate.Format("1/2/2006"))
	case len(medium) > 0:
		next := sortedByDueAsc(medium)[0]
		fmt.Fprintf(&b, "✅ **Focus on \"%s\"**\n", next.Title)
		b.WriteString("• Reason: Earliest deadline among medium priority tasks\n")
		fmt.Fprintf(&b, "• Due: %s\n\n", next.DueDate.Format("1/2/2006"))
	case len(low) > 0:
		next := sortedByDueAsc(low)[0]
		fmt.Fprintf(&b, "📝 **Consider \"%s\"**\n", next.Title)
		b.WriteString("• Reason: Low priority but approaching deadline\n")
		fmt.Fprintf(&b, "• Due: %s\n\n", next.DueDate.Format("1/2/2006"))
	}

	b.WriteString("💡 **Productivity Tips:**\n")
	if len(pending) > 0 {
		fmt.Fprintf(&b, "• You have %d pending task%s - focus on completion, not perfection\n", len(pending), plural(len(pending)))
	}
	if len(high) > 3 {
		fmt.Fprintf(&b, "• You have %d high-priority tasks - consider if all are truly urgent\n", len(high))
	}
	if len(overdue) > 0 {
		verb := " is"
		if len(overdue) > 1 {
			verb = "s are"
		}
		fmt.Fprintf(&b, "• ⚠️ %d task%s overdue - prioritize these immediately\n", len(overdue), verb)
	}
	b.WriteString("• Use time-blocking: dedicate 25-minute focused sessions (Pomodoro technique)\n")
	b.WriteString("• Complete one task fully before starting another to maintain momentum\n\n")

	completionRate := int(math.Round(float64(len(completed)) / float64(n) * 100))

	b.WriteString("📊 **Your Progress:**\n")
	fmt.Fprintf(&b, "• Total Tasks: %d\n", n)
	fmt.Fprintf(&b, "• Completed: %d (%d%%)\n", len(completed), completionRate)
	fmt.Fprintf(&b, "• Pending: %d\n", len(pending))
	if len(overdue) > 0 {
		fmt.Fprintf(&b, "• ⚠️ Overdue: %d\n", len(overdue))
	}
	b.WriteString("\n")

	switch {
	case completionRate >= 70:
		b.WriteString("🎉 **Great job!** You're completing most of your tasks. Keep up the momentum!\n")
	case completionRate >= 40:
		b.WriteString("💪 **Good progress!** You're on the right track. Stay focused!\n")
	case len(completed) > 0:
		b.WriteString("🌱 **Getting started!** Every completed task is a step forward. Keep going!\n")
	}

	return Envelope{
		Success:    true,
		Suggestion: b.String(),
		Source:     SourceMock,
		TaskCount:  &n,
	}
}

// mockEnergySuggestions matches pending tasks to an energy level with fixed
// caps: up to 3 recommendations, up to 2 tasks to avoid, 30-minute focus
// estimates.
func mockEnergySuggestions(pending []tasks.Task, level string) Envelope {
	sorted := sortedByPriorityDesc(pending)

	var (
		recs   []tasks.Task
		avoid  []tasks.Task
		tip    string
		reason string
	)

	switch level {
	case "low":
		recs = byPriority(sorted, tasks.PriorityLow)
		avoid = byPriority(sorted, tasks.PriorityHigh)
		tip = "Energy is low - knock out small wins and save the heavy lifting for later."
		reason = "Low priority and light enough for a low-energy stretch"
	case "high":
		recs = byPriority(sorted, tasks.PriorityHigh)
		avoid = byPriority(sorted, tasks.PriorityLow)
		tip = "You're at peak energy - tackle the hardest, highest-impact work now."
		reason = "High priority - make the most of your peak focus"
	default: // medium
		recs = byPriority(sorted, tasks.PriorityMedium)
		tip = "Steady energy is perfect for making consistent progress."
		reason = "Medium priority - a steady win for steady energy"
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	if len(avoid) > 2 {
		avoid = avoid[:2]
	}

	recommended := make([]map[string]any, 0, len(recs))
	for _, t := range recs {
		recommended = append(recommended, map[string]any{
			"taskId":         t.ID,
			"title":          t.Title,
			"reason":         reason,
			"estimatedFocus": 30,
		})
	}

	avoidTitles := make([]string, 0, len(avoid))
	for _, t := range avoid {
		avoidTitles = append(avoidTitles, t.Title)
	}

	return Envelope{
		Success: true,
		Data: map[string]any{
			"recommendedTasks": recommended,
			"energyTip":        tip,
			"avoidTasks":       avoidTitles,
		},
		Source: SourceMock,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// mockReflection derives an end-of-day review from task counts. The score is
// clamp(0,100, completedToday*20 - overdue*10 + rating*10), rating defaulting
// to 3.
func mockReflection(all []tasks.Task, in ReflectionInput, now time.Time) Envelope {
	completedToday := 0
	for _, t := range all {
		if t.Status == tasks.StatusCompleted && sameDay(t.UpdatedAt, now) {
			completedToday++
		}
	}
	pending := filterTasks(all, byStatus(tasks.StatusPending))
	overdue := filterTasks(pending, func(t tasks.Task) bool { return t.DueDate.Before(now) })
	highPending := byPriority(pending, tasks.PriorityHigh)

	rating := 3
	if in.ProductivityRating != nil && *in.ProductivityRating != 0 {
		rating = clamp(*in.ProductivityRating, 1, 5)
	}

	score := clamp(completedToday*20-len(overdue)*10+rating*10, 0, 100)

	var wins []string
	if completedToday > 0 {
		wins = append(wins, fmt.Sprintf("Completed %d task%s today", completedToday, plural(completedToday)))
	}
	if strings.TrimSpace(in.CompletedToday) != "" {
		wins = append(wins, "You noted: "+strings.TrimSpace(in.CompletedToday))
	}
	if len(overdue) == 0 {
		wins = append(wins, "Nothing is overdue - your deadlines are under control")
	}
	if len(wins) == 0 {
		wins = append(wins, "You showed up and reviewed your day - that counts")
	}

	var improvements []string
	if len(overdue) > 0 {
		improvements = append(improvements, fmt.Sprintf("%d task%s overdue - schedule them first thing tomorrow", len(overdue), plural(len(overdue))))
	}
	if strings.TrimSpace(in.Blockers) != "" {
		improvements = append(improvements, "Address what blocked you today: "+strings.TrimSpace(in.Blockers))
	}
	if len(improvements) == 0 {
		improvements = append(improvements, "Keep your task list fresh by reviewing it each morning")
	}

	var focus []string
	if len(overdue) > 0 {
		focus = append(focus, "Clear your overdue tasks before taking on anything new")
	}
	if len(highPending) > 0 {
		focus = append(focus, fmt.Sprintf("Start with your %d high-priority task%s", len(highPending), plural(len(highPending))))
	}
	if len(focus) == 0 {
		focus = append(focus, "Pick tomorrow's most important task tonight and start with it")
	}

	var motivation string
	switch {
	case score >= 70:
		motivation = "Strong day - keep the streak alive!"
	case score >= 40:
		motivation = "Solid progress - tomorrow builds on today."
	default:
		motivation = "Every day is a fresh start. One task at a time."
	}

	var patterns []string
	if len(overdue) > 0 {
		patterns = append(patterns, "Deadlines tend to slip past their due dates")
	}
	if completedToday >= 3 {
		patterns = append(patterns, "Once you get going, you close out several tasks in a day")
	}
	if len(patterns) == 0 {
		patterns = append(patterns, "Not enough recent activity to spot a pattern yet")
	}

	return Envelope{
		Success: true,
		Data: map[string]any{
			"dailySummary": fmt.Sprintf(
				"You completed %d task%s today, with %d still pending and %d overdue.",
				completedToday, plural(completedToday), len(pending), len(overdue),
			),
			"wins":                wins,
			"improvements":        improvements,
			"tomorrowFocus":       focus,
			"motivationalMessage": motivation,
			"productivityScore":   score,
			"patterns":            patterns,
		},
		Source: SourceMock,
	}
}
