package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .ttweave.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to ttweave! Let's configure your document.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Document title.
	titlePrompt := promptui.Prompt{
		Label:   "Document title",
		Default: cfg.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	cfg.Title = title

	// 2. Specials stream produced by the TeX pass.
	inputPrompt := promptui.Prompt{
		Label:   "Specials stream (input)",
		Default: cfg.Input,
	}
	input, err := inputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	cfg.Input = input

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the woven HTML",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 4. Initial sidebar visibility.
	sidebarPrompt := promptui.Select{
		Label: "Sidebar starts",
		Items: []string{SidebarHidden, SidebarVisible},
	}
	_, initial, err := sidebarPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sidebar visibility: %w", err)
	}
	cfg.Sidebar.Initial = initial

	// 5. Preview server port.
	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// Save to .ttweave.yml.
	configPath := ".ttweave.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
