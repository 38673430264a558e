package ai

import (
	"context"
	"time"

	"github.com/abhishekrajput-web/task-management-application/internal/tasks"
)

// Source provenance values; a live answer carries the model name instead.
const (
	SourceMock  = "mock-ai"
	SourceError = "error"
)

const unavailableText = "AI not available right now. Please try again."

// Envelope is the structured response every capability returns. Data is
// populated only when the model's reply matched the capability's expected
// shape; otherwise raw model text (if any) survives in Suggestion so
// nothing the model said is silently dropped.
type Envelope struct {
	Success    bool           `json:"success"`
	Source     string         `json:"source,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
	TaskCount  *int           `json:"taskCount,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// ReflectionInput is the user-supplied part of a daily reflection.
type ReflectionInput struct {
	CompletedToday     string `json:"completedToday"`
	Blockers           string `json:"blockers"`
	ProductivityRating *int   `json:"productivityRating"`
}

// Service implements the seven AI capabilities. Each issues at most one
// model call and never returns an error: model failure routes to a
// deterministic fallback or a soft-failure envelope.
type Service struct {
	gen   TextGenerator
	model string
	now   func() time.Time
}

func NewService(gen TextGenerator, model string) *Service {
	return &Service{gen: gen, model: model, now: time.Now}
}

// Suggest analyzes the full task list and recommends what to work on.
func (s *Service) Suggest(ctx context.Context, all []tasks.Task) Envelope {
	prompt := buildSuggestionPrompt(all, s.now())
	text, ok := s.gen.Generate(ctx, prompt, freeTextParams)
	if !ok {
		return mockSuggestion(all, s.now())
	}

	n := len(all)
	return Envelope{
		Success:    true,
		Suggestion: text,
		Source:     s.model,
		TaskCount:  &n,
	}
}

// Improve rewrites a task title, suggests priority and a time estimate.
func (s *Service) Improve(ctx context.Context, task tasks.Task) Envelope {
	return s.structured(ctx, buildImprovePrompt(task), improveShape)
}

// Breakdown splits a task into 5-10 small subtasks.
func (s *Service) Breakdown(ctx context.Context, task tasks.Task) Envelope {
	return s.structured(ctx, buildBreakdownPrompt(task), breakdownShape)
}

// ParseBrainDump converts a free-text blob into task candidates.
func (s *Service) ParseBrainDump(ctx context.Context, text string) Envelope {
	return s.structured(ctx, buildBrainDumpPrompt(text, s.now()), brainDumpShape)
}

// DoItForMe generates the task's deliverable (email draft, agenda, plan...).
func (s *Service) DoItForMe(ctx context.Context, task tasks.Task) Envelope {
	return s.structured(ctx, buildDoItForMePrompt(task), doItForMeShape)
}

// EnergySuggestions matches pending tasks to the user's energy level.
// Unlike the other structured capabilities it has a deterministic fallback.
func (s *Service) EnergySuggestions(ctx context.Context, pending []tasks.Task, level string) Envelope {
	prompt := buildEnergyPrompt(pending, level, s.now())
	text, ok := s.gen.Generate(ctx, prompt, structuredParams)
	if !ok {
		return mockEnergySuggestions(pending, level)
	}
	return s.finish(text, energyShape)
}

// DailyReflection reviews the day from task data plus the user's own notes.
func (s *Service) DailyReflection(ctx context.Context, all []tasks.Task, in ReflectionInput) Envelope {
	prompt := buildReflectionPrompt(all, in, s.now())
	text, ok := s.gen.Generate(ctx, prompt, structuredParams)
	if !ok {
		return mockReflection(all, in, s.now())
	}
	return s.finish(text, reflectionShape)
}

// structured is the shared state machine for capabilities without a
// deterministic fallback: model unavailable -> soft failure; shape matched
// -> data; otherwise raw text pass-through.
func (s *Service) structured(ctx context.Context, prompt string, check shapeCheck) Envelope {
	text, ok := s.gen.Generate(ctx, prompt, structuredParams)
	if !ok {
		return Envelope{
			Success:    true,
			Suggestion: unavailableText,
			Source:     SourceMock,
		}
	}
	return s.finish(text, check)
}

func (s *Service) finish(text string, check shapeCheck) Envelope {
	if obj, ok := decodeLooseObject(text); ok && check(obj) {
		return Envelope{Success: true, Data: obj, Source: s.model}
	}
	return Envelope{Success: true, Suggestion: text, Source: s.model}
}
