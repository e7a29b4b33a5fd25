package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hb-chen/skillrun/internal/config"
	"github.com/hb-chen/skillrun/internal/skill"
	"github.com/hb-chen/skillrun/internal/skill/direct"
)

var (
	findRole         string
	showInstructions bool
	execUnit         string
	execInput        string
	execOutput       string
)

// skillCmd represents the skill command group
var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect and execute skills from the command line",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		names, err := rt.Store().Names()
		if err != nil {
			return err
		}

		for _, name := range names {
			s, err := rt.Metadata(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", name, err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", s.Name, s.Version, s.Title)
		}
		return nil
	},
}

var skillFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find skills matching a free-text query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		skills, err := rt.Find(args[0], findRole)
		if err != nil {
			return err
		}

		if len(skills) == 0 {
			fmt.Println("no matching skills")
			return nil
		}
		for _, s := range skills {
			fmt.Printf("%s\t%s\t%s\n", s.Name, s.Version, s.Title)
		}
		return nil
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill's metadata or instructions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		if showInstructions {
			body, err := rt.Instructions(args[0])
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		}

		s, err := rt.Metadata(args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(map[string]interface{}{
			"name":              s.Name,
			"title":             s.Title,
			"version":           s.Version,
			"category":          s.Category,
			"triggers":          s.Triggers,
			"allowed_callers":   s.AllowedCallers,
			"runtime":           s.Runtime,
			"dependencies":      s.Dependencies,
			"timeout_seconds":   s.TimeoutSeconds,
			"max_input_size_kb": s.MaxInputSizeKb,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var skillExecCmd = &cobra.Command{
	Use:   "exec <name>",
	Short: "Execute a skill's computation unit",
	Long: `Execute a computation unit of a skill with a JSON input payload.
Input is read from --input (a file path, or - for stdin); the execution
envelope is written to stdout or --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		var input []byte
		switch execInput {
		case "", "-":
			input, err = io.ReadAll(os.Stdin)
		default:
			input, err = os.ReadFile(execInput)
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		result := rt.Execute(cmd.Context(), args[0], execUnit, input)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}

		if execOutput != "" {
			return os.WriteFile(execOutput, out, 0644)
		}
		fmt.Println(string(out))
		return nil
	},
}

// newRuntime builds a runtime from the loaded configuration.
func newRuntime() (*skill.Runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store := skill.NewStore(cfg.Skills.Dir)
	return skill.NewRuntime(store, direct.NewDirectExecutor()), nil
}

func init() {
	skillFindCmd.Flags().StringVar(&findRole, "role", "", "caller role for authorization filtering")
	skillShowCmd.Flags().BoolVar(&showInstructions, "instructions", false, "print the skill's instructional body")
	skillExecCmd.Flags().StringVar(&execUnit, "unit", "", "computation unit to run (required)")
	skillExecCmd.Flags().StringVar(&execInput, "input", "", "input JSON file path, or - for stdin")
	skillExecCmd.Flags().StringVar(&execOutput, "output", "", "output file path (default stdout)")
	_ = skillExecCmd.MarkFlagRequired("unit")

	skillCmd.AddCommand(skillListCmd, skillFindCmd, skillShowCmd, skillExecCmd)
	rootCmd.AddCommand(skillCmd)
}
