package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// gatewayMarkers are files that identify a directory holding the Node gateway.
var gatewayMarkers = []string{"package.json", "src/index.ts"}

// detectGatewayDir looks for a gateway checkout next to the working directory.
func detectGatewayDir() string {
	for _, dir := range []string{"./gateway", "../gateway"} {
		for _, marker := range gatewayMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to wabridge! Let's configure the bridge.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Listen address.
	hostPrompt := promptui.Prompt{
		Label:   "Host to listen on",
		Default: defaults.Host,
	}
	host, err := hostPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 2. Command prefix.
	prefixPrompt := promptui.Prompt{
		Label:   "Command prefix",
		Default: defaults.Prefix,
	}
	prefix, err := prefixPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prefix: %w", err)
	}

	// 3. Gateway process.
	autoPrompt := promptui.Select{
		Label: "Start the gateway process automatically",
		Items: []string{"yes", "no"},
	}
	autoIdx, _, err := autoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("auto start selection: %w", err)
	}

	cfg := &Config{
		Host:             host,
		Port:             port,
		Prefix:           prefix,
		GatewayDir:       defaults.GatewayDir,
		AutoStartGateway: autoIdx == 0,
		GatewayCmd:       defaults.GatewayCmd,
		LogLevel:         defaults.LogLevel,
	}

	if cfg.AutoStartGateway {
		dir := detectGatewayDir()
		if dir != "" {
			fmt.Printf("Detected gateway in %s\n\n", dir)
		} else {
			dir = defaults.GatewayDir
		}
		dirPrompt := promptui.Prompt{
			Label:   "Gateway directory",
			Default: dir,
		}
		if cfg.GatewayDir, err = dirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("gateway dir: %w", err)
		}

		cmdPrompt := promptui.Prompt{
			Label:   "Gateway command",
			Default: strings.Join(defaults.GatewayCmd, " "),
		}
		cmdStr, err := cmdPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("gateway command: %w", err)
		}
		if cmd := splitCommand(cmdStr); len(cmd) > 0 {
			cfg.GatewayCmd = cmd
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitCommand splits a command line on whitespace. Quoting is not supported.
func splitCommand(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
