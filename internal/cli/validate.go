package cli

import (
	"fmt"
	"os"

	"github.com/promptline/promptline/internal/config"
)

// Validate validates a promptline configuration file.
func Validate(configPath string) error {
	// If no path provided, look for config in current directory
	if configPath == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		configPath = config.FindConfig(currentDir)
		if configPath == "" {
			return fmt.Errorf("no config file found in current directory")
		}
	}

	fmt.Printf("Validating: %s\n\n", configPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := config.Validate(configPath, content)
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Println(successStyle.Render("✅ Configuration is valid!"))
		return nil
	}

	fmt.Println(errorStyle.Render("❌ Configuration has errors:"))
	for i, validationErr := range result.Errors {
		fmt.Printf("%d. [%s] %s\n", i+1, validationErr.Field, validationErr.Message)
	}

	fmt.Printf("\nFound %d error(s)\n", len(result.Errors))

	return fmt.Errorf("validation failed")
}
