package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/stubreg/config"
	"github.com/c360studio/stubreg/factory"
	"github.com/c360studio/stubreg/globals"
	"github.com/c360studio/stubreg/lang"
	"github.com/c360studio/stubreg/stub"
)

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration, factory wiring and message catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, *configPath)
		},
	}
}

func runCheck(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cmd.Println("✓ Configuration valid")

	// Install the slots without constructing anything, then make sure
	// every descriptor-built slot has a constructor behind it.
	reg := stub.NewRegistry(stub.Options{LoopLimit: cfg.Registry.LoopLimit})
	if err := globals.Install(reg, cfg); err != nil {
		return fmt.Errorf("install slots: %w", err)
	}
	slots := reg.Slots()
	for _, s := range slots {
		tt := s.TargetType()
		if tt == "" {
			// Recipe-only slots construct without the factory.
			continue
		}
		if !factory.Default().Has(tt) {
			return fmt.Errorf("slot %q: no constructor registered for type %q", s.Name(), tt)
		}
	}
	cmd.Printf("✓ %d slots wired, %d factory types registered\n", len(slots), len(factory.Default().Types()))

	if cfg.Language.MessagesDir != "" {
		n, err := lang.CheckCatalogDir(cfg.Language.MessagesDir)
		if err != nil {
			return fmt.Errorf("message catalogs: %w", err)
		}
		cmd.Printf("✓ %d message catalogs parse\n", n)
	}

	for _, pattern := range cfg.Registry.Eager {
		matched, err := globals.MatchSlots(reg, []string{pattern})
		if err != nil {
			return err
		}
		if len(matched) == 0 {
			cmd.Printf("! eager pattern %q matches no slot\n", pattern)
		}
	}

	cmd.Println("Check passed")
	return nil
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.NewLoader(slog.Default()).Load()
}
