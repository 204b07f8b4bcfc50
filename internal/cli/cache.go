package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mingzhai/arklens/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the hosted API response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached API responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, err := cache.NewDisk("")
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if err := disk.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Cache cleared.")
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, err := cache.NewDisk("")
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		stats, err := disk.Stats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
