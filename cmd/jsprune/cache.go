package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/jsprune/internal/cache"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache size and age",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached results",
				Action: runCacheClear,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
}

func runCacheStats(c *cli.Context) error {
	rc, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := rc.GetStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(c.App.Writer, "Size:    %d bytes\n", stats.TotalSize)
	if stats.Entries > 0 {
		fmt.Fprintf(c.App.Writer, "Oldest:  %s\n", stats.OldestAge.Round(time.Second))
	}
	return nil
}

func runCacheClear(c *cli.Context) error {
	rc, err := openCache(c)
	if err != nil {
		return err
	}
	if err := rc.Clear(); err != nil {
		return err
	}
	color.Green("Cache cleared")
	return nil
}
