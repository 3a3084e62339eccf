package config

import (
	"os"
	"os/user"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// PromptVars are the variables available to prompt templates, alongside
// the sprig function library.
type PromptVars struct {
	WorkingDir string
	Home       string
	User       string
}

func promptVars() PromptVars {
	vars := PromptVars{}
	if cwd, err := os.Getwd(); err == nil {
		vars.WorkingDir = cwd
	}
	if home, err := os.UserHomeDir(); err == nil {
		vars.Home = home
	}
	if u, err := user.Current(); err == nil {
		vars.User = u.Username
	}
	return vars
}

// ExpandPrompt renders the configured prompt template. A template that
// fails to parse or execute falls back to the raw prompt string, so a
// bad template never leaves the session without a prompt.
func (c *Config) ExpandPrompt() string {
	expanded, err := expandPromptTemplate(c.Input.Prompt, promptVars())
	if err != nil {
		return c.Input.Prompt
	}
	return expanded
}

func expandPromptTemplate(prompt string, vars PromptVars) (string, error) {
	if !strings.Contains(prompt, "{{") {
		return prompt, nil
	}

	tmpl, err := template.New("prompt").Funcs(sprig.FuncMap()).Parse(prompt)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", err
	}
	return b.String(), nil
}
