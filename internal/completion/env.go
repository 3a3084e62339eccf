package completion

import (
	"context"
	"sort"
	"strings"
)

const maxEnvDescriptionLen = 40

// EnvProvider completes $NAME tokens from the environment variables of
// the completion context.
type EnvProvider struct{}

// NewEnvProvider creates an environment variable provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// ID implements Provider.
func (e *EnvProvider) ID() string { return "env" }

// Name implements Provider.
func (e *EnvProvider) Name() string { return "Environment variable" }

// CanComplete applies when the current token starts with '$'.
func (e *EnvProvider) CanComplete(cctx Context) bool {
	return strings.HasPrefix(cctx.CurrentPart, "$")
}

// GetCompletions returns matching $NAME suggestions.
func (e *EnvProvider) GetCompletions(_ context.Context, cctx Context, cfg Config) ([]Suggestion, error) {
	namePart := strings.TrimPrefix(cctx.CurrentPart, "$")

	names := make([]string, 0, len(cctx.EnvironmentVariables))
	for name := range cctx.EnvironmentVariables {
		names = append(names, name)
	}
	sort.Strings(names)

	tokenRange := currentTokenRange(cctx)
	suggestions := []Suggestion{}
	for _, name := range names {
		if !matchPrefix(name, namePart, cfg.CaseSensitive) {
			continue
		}

		description := ""
		if cfg.ShowDescriptions {
			description = cctx.EnvironmentVariables[name]
			if runes := []rune(description); len(runes) > maxEnvDescriptionLen {
				description = string(runes[:maxEnvDescriptionLen]) + "..."
			}
		}

		suggestions = append(suggestions, Suggestion{
			Text:        "$" + name,
			Priority:    PriorityLow,
			Description: description,
			Range:       tokenRange,
		})
	}

	return suggestions, nil
}
