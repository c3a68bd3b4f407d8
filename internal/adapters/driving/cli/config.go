package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/inkwell-labs/lectern/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and configure indexing, scoring, and LLM provider options.

Use subcommands to set individual keys or run the provider wizard.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration key to the given value and persist it.

Keys use dotted paths, for example:
  indexing.chunk_size 2000
  indexing.analysis_depth deep
  scoring.top_chunks 8
  llm.model gpt-4o`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long:  `Run an interactive prompt to configure the provider used for answers and analysis.`,
	RunE:  runConfigLLM,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configLLMCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := configfile.IndexingSettings(configStore)
	weights := configfile.ScoreWeights(configStore)

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Chunk size: %d\n", settings.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.ChunkOverlap)
	cmd.Printf("  Batch size: %d\n", settings.BatchSize)
	cmd.Printf("  Analysis depth: %s\n", settings.Depth)
	cmd.Printf("  Analysis passes: %d\n", settings.Passes)
	cmd.Printf("  Max retries: %d\n", settings.MaxRetries)
	cmd.Println()

	cmd.Println("[Scoring]")
	cmd.Printf("  Top chunks: %d\n", weights.TopChunks)
	cmd.Printf("  Top notes: %d\n", weights.TopNotes)
	cmd.Printf("  Marker text: %s\n", weights.MarkerText)
	cmd.Println()

	cmd.Println("[LLM]")
	provider := configStore.GetString(configfile.KeyProvider)
	model := configStore.GetString(configfile.KeyModel)
	baseURL := configStore.GetString(configfile.KeyBaseURL)
	apiKey := configStore.GetString(configfile.KeyAPIKey)
	if provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", provider)
	}
	if model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if apiKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
	} else {
		cmd.Println("  API Key: (not set)")
	}
	status := "configured"
	if provider == "" || (provider == "openai" && apiKey == "") {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := []string{"openai", "ollama"}
	defaults := map[string]string{
		"openai": "gpt-4o-mini",
		"ollama": "llama3.2",
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	provider := providers[idx-1]

	defaultModel := defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider == "openai" {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	var baseURL string
	if provider == "ollama" {
		cmd.Print("Enter base URL [http://localhost:11434]: ")
		baseURL = readLine(reader)
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
	}

	if err := configStore.Set(configfile.KeyProvider, provider); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	if err := configStore.Set(configfile.KeyModel, model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}
	if apiKey != "" {
		if err := configStore.Set(configfile.KeyAPIKey, apiKey); err != nil {
			return fmt.Errorf("failed to set API key: %w", err)
		}
	}
	if baseURL != "" {
		if err := configStore.Set(configfile.KeyBaseURL, baseURL); err != nil {
			return fmt.Errorf("failed to set base URL: %w", err)
		}
	}
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", provider, model)
	cmd.Println("Restart any running commands to pick up the new provider.")
	return nil
}

// Helper functions.

// coerceValue keeps TOML types stable so numeric and boolean keys
// round-trip as their native types rather than strings.
func coerceValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
