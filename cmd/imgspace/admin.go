package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// storeInfo describes the open store for init and info.
type storeInfo struct {
	ConfigDir  string `json:"config_dir"`
	DataDir    string `json:"data_dir"`
	Database   string `json:"database"`
	InstallID  string `json:"install_id"`
	Workspaces int    `json:"workspaces"`
}

func (a *app) storeInfo(cmd *cobra.Command) (storeInfo, error) {
	ctx := cmd.Context()
	sys, err := a.store.Settings(ctx)
	if err != nil {
		return storeInfo{}, err
	}
	ws, err := a.store.ListWorkspaces(ctx)
	if err != nil {
		return storeInfo{}, err
	}
	return storeInfo{
		ConfigDir:  a.configDir,
		DataDir:    a.dataDir,
		Database:   a.cfg.StoreConfig(a.dataDir).DatabasePath(),
		InstallID:  sys.InstallID,
		Workspaces: len(ws),
	}, nil
}

func (a *app) printInfo(info storeInfo) error {
	if a.flagJSON {
		return printJSON(a.stdout, info)
	}
	fmt.Fprintf(a.stdout, "config dir: %s\n", info.ConfigDir)
	fmt.Fprintf(a.stdout, "data dir:   %s\n", info.DataDir)
	fmt.Fprintf(a.stdout, "database:   %s\n", info.Database)
	fmt.Fprintf(a.stdout, "install id: %s\n", info.InstallID)
	fmt.Fprintf(a.stdout, "workspaces: %d\n", info.Workspaces)
	return nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the database",
		Long:  "Write a default config.yaml if missing, create the data directory and the database schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file, data dir and schema were created before RunE.
			info, err := a.storeInfo(cmd)
			if err != nil {
				return err
			}
			if !a.flagJSON {
				fmt.Fprintln(a.stdout, "imgspace initialized")
			}
			return a.printInfo(info)
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show store locations and singleton settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.storeInfo(cmd)
			if err != nil {
				return err
			}
			return a.printInfo(info)
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table and recreate an empty schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes all data; pass --yes to confirm")
			}
			ctx := cmd.Context()
			if err := a.store.DropSchema(ctx); err != nil {
				return sysError("drop schema: %w", err)
			}
			if err := a.store.EnsureSchema(ctx); err != nil {
				return sysError("create schema: %w", err)
			}
			if a.flagJSON {
				return printJSON(a.stdout, map[string]bool{"success": true})
			}
			fmt.Fprintln(a.stdout, "schema reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
