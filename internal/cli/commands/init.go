package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lsolve-labs/lsolve/internal/config"
	"github.com/lsolve-labs/lsolve/pkg/solver"
)

// exampleSource is the starter model init writes next to the config.
const exampleSource = `{ Heat exchanger energy balance }

m_dot := 0.25 [kg/s]    "cold side mass flow"
cp := 4.18 [kJ/kg-K]    "water specific heat"
T_in := 12 [C]
T_out := 55 [C]
UA := 1.9 [kW/K]

"duty from the energy balance"
Q = m_dot * cp * (T_out - T_in)

"the rating equation closes the loop on the mean temperature difference"
UA * DT_m = Q
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize an lsolve project",
		Long: `Initialize writes an lsolve.yaml configuration file and an example
equation file to start from.`,
		Example: `  # Initialize the current directory
  lsolve init

  # Initialize a new directory
  lsolve init heat-pump

  # Overwrite an existing configuration
  lsolve init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cc := NewCommandContextWithoutEngine(cmd)
	r := cc.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "lsolve.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("lsolve.yaml already exists. Use --force to overwrite")
	}

	defaults := solver.DefaultSettings()
	raw, err := yaml.Marshal(map[string]any{
		"algorithm":      config.DefaultAlgorithm,
		"tolerance":      defaults.Tolerance,
		"max_iterations": defaults.MaxIterations,
		"history":        config.DefaultHistory,
		"output":         config.DefaultOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine("lsolve.yaml", "ok", "")

	examplePath := filepath.Join(dir, "example.lse")
	if _, err := os.Stat(examplePath); os.IsNotExist(err) || force {
		if err := os.WriteFile(examplePath, []byte(exampleSource), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", examplePath, err)
		}
		r.StatusLine("example.lse", "ok", "")
	}

	r.Println("")
	r.Success("lsolve project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit example.lse or add your own .lse files")
	r.Println("  2. Run 'lsolve run example.lse' to solve")
	r.Println("  3. Run 'lsolve repl' for an interactive session")

	return nil
}
