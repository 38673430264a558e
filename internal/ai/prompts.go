package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhishekrajput-web/task-management-application/internal/tasks"
)

// promptTask is the trimmed task view serialized into prompts.
type promptTask struct {
	ID        int64  `json:"id,omitempty"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Status    string `json:"status,omitempty"`
	DueDate   string `json:"dueDate"`
	IsOverdue bool   `json:"isOverdue,omitempty"`
}

func tasksJSON(list []tasks.Task, withID bool, now time.Time) string {
	view := make([]promptTask, 0, len(list))
	for _, t := range list {
		p := promptTask{
			Title:     t.Title,
			Priority:  t.Priority,
			Status:    t.Status,
			DueDate:   t.DueDate.UTC().Format(time.RFC3339),
			IsOverdue: t.IsOverdue(now),
		}
		if withID {
			p.ID = t.ID
		}
		view = append(view, p)
	}
	b, _ := json.MarshalIndent(view, "", "  ")
	return string(b)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func buildSuggestionPrompt(list []tasks.Task, now time.Time) string {
	return strings.Join([]string{
		"You are a productivity assistant.",
		"Analyze these tasks and provide actionable advice.",
		"",
		"Tasks JSON:\n" + tasksJSON(list, false, now),
		"",
		"Return:",
		"1) Which task to work on FIRST and WHY (priority, due date, overdue)",
		"2) A brief productivity tip (2-3 sentences)",
		"3) A time management suggestion",
		"",
		"Format: bullet points. Be concise and actionable.",
	}, "\n")
}

func buildImprovePrompt(t tasks.Task) string {
	return strings.Join([]string{
		"You are an expert task assistant.",
		"Your job: rewrite the task title to be clearer, suggest better priority, and estimate time.",
		"",
		"Task:",
		"Title: " + t.Title,
		"Description: " + orNone(t.Description),
		"Priority: " + t.Priority,
		"DueDate: " + t.DueDate.UTC().Format(time.RFC3339),
		"Status: " + t.Status,
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		"{",
		`  "improvedTitle": "string",`,
		`  "suggestedPriority": "Low" | "Medium" | "High",`,
		`  "timeEstimateMinutes": number,`,
		`  "reason": "string"`,
		"}",
	}, "\n")
}

func buildBreakdownPrompt(t tasks.Task) string {
	return strings.Join([]string{
		"You are a task breakdown assistant.",
		"Break the task into 5-10 small actionable subtasks that take 15-45 minutes each.",
		"",
		"Task:",
		"Title: " + t.Title,
		"Description: " + orNone(t.Description),
		"DueDate: " + t.DueDate.UTC().Format(time.RFC3339),
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		`{ "subtasks": [{ "title": "string", "estimateMinutes": number }] }`,
	}, "\n")
}

func buildBrainDumpPrompt(text string, now time.Time) string {
	return strings.Join([]string{
		"You are a task capture assistant.",
		"Split this brain dump into separate, actionable tasks.",
		fmt.Sprintf("Today's date is %s.", now.UTC().Format("2006-01-02")),
		"",
		"Brain dump:",
		text,
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		"{",
		`  "tasks": [{`,
		`    "title": "string",`,
		`    "description": "string",`,
		`    "priority": "Low" | "Medium" | "High",`,
		`    "suggestedDueDate": "YYYY-MM-DD" | null,`,
		`    "estimateMinutes": number`,
		"  }]",
		"}",
	}, "\n")
}

func buildEnergyPrompt(pending []tasks.Task, level string, now time.Time) string {
	return strings.Join([]string{
		"You are an energy-aware productivity assistant.",
		fmt.Sprintf("The user's current energy level is: %s.", level),
		"Match their pending tasks to that energy level.",
		"",
		"Pending tasks JSON:\n" + tasksJSON(pending, true, now),
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		"{",
		`  "recommendedTasks": [{ "taskId": number, "title": "string", "reason": "string", "estimatedFocus": number }],`,
		`  "energyTip": "string",`,
		`  "avoidTasks": ["string"]`,
		"}",
	}, "\n")
}

func buildDoItForMePrompt(t tasks.Task) string {
	return strings.Join([]string{
		"You are a task completion assistant.",
		"Do as much of this task as possible for the user and produce the deliverable itself.",
		"",
		"Task:",
		"Title: " + t.Title,
		"Description: " + orNone(t.Description),
		"Priority: " + t.Priority,
		"DueDate: " + t.DueDate.UTC().Format(time.RFC3339),
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		"{",
		`  "taskType": "email" | "agenda" | "research" | "draft" | "plan" | "other",`,
		`  "generatedContent": "string",`,
		`  "summary": "string",`,
		`  "nextSteps": ["string"]`,
		"}",
	}, "\n")
}

func buildReflectionPrompt(list []tasks.Task, in ReflectionInput, now time.Time) string {
	rating := "(not provided)"
	if in.ProductivityRating != nil {
		rating = fmt.Sprintf("%d/5", *in.ProductivityRating)
	}

	return strings.Join([]string{
		"You are a supportive end-of-day reflection coach.",
		"Review the user's day from their task data and their own notes.",
		"",
		"Tasks JSON:\n" + tasksJSON(list, false, now),
		"",
		"User's notes:",
		"Accomplishments: " + orNone(in.CompletedToday),
		"Blockers: " + orNone(in.Blockers),
		"Self-rated productivity: " + rating,
		"",
		"Return STRICT JSON only (no markdown, no extra text) with exactly this shape:",
		"{",
		`  "dailySummary": "string",`,
		`  "wins": ["string"],`,
		`  "improvements": ["string"],`,
		`  "tomorrowFocus": ["string"],`,
		`  "motivationalMessage": "string",`,
		`  "productivityScore": number,`,
		`  "patterns": ["string"]`,
		"}",
		"productivityScore is 0-100.",
	}, "\n")
}
