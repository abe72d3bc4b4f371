package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tapestry-ui/tapestry"
)

const version = "0.1.0"

var assetManifest string

var rootCmd = &cobra.Command{
	Use:   "tapestry",
	Short: "Inspect and exercise the Tapestry native image loader",
	Long: `tapestry is a command line tool for poking at the native image loader:
probing image sizes, prefetching images into the cache, aborting prefetches
and inspecting cache state.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if assetManifest == "" {
			return nil
		}
		if err := tapestry.LoadAssetManifest(assetManifest); err != nil {
			return fmt.Errorf("failed to load asset manifest: %w", err)
		}
		return nil
	},
}

var getSizeCmd = &cobra.Command{
	Use:   "getsize [url]",
	Short: "Probe the intrinsic dimensions of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		var failure error
		tapestry.GetSize(cmd.Context(), url,
			func(width, height float32) {
				fmt.Printf("%s: %.0fx%.0f\n", url, width, height)
			},
			func(err error) {
				failure = fmt.Errorf("failed to get size of %s: %w", url, err)
			},
		)
		return failure
	},
}

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [url...]",
	Short: "Fetch and cache images without displaying them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, url := range args {
			err := tapestry.Prefetch(cmd.Context(), url, func(id tapestry.RequestID) {
				fmt.Printf("request %d: %s\n", id, url)
			})
			if err != nil {
				return fmt.Errorf("failed to prefetch %s: %w", url, err)
			}
		}
		return nil
	},
}

var abortCmd = &cobra.Command{
	Use:   "abort [request-id]",
	Short: "Abort an in-flight prefetch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q: %w", args[0], err)
		}

		tapestry.AbortPrefetch(tapestry.RequestID(id))
		fmt.Printf("abort requested for %d\n", id)
		return nil
	},
}

var queryCacheCmd = &cobra.Command{
	Use:   "querycache [url...]",
	Short: "Report where each URL is cached",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := tapestry.QueryCache(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("cache query failed: %w", err)
		}

		for _, url := range args {
			location, ok := result[url]
			if !ok {
				fmt.Printf("%-12s %s\n", "(uncached)", url)
				continue
			}
			fmt.Printf("%-12s %s\n", location, url)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print tool and engine versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("tapestry version %s (%s)\n", version, tapestry.CurrentPlatform())

		engineVersion, err := tapestry.EngineVersion()
		if err != nil {
			fmt.Println("engine: not available")
			return nil
		}
		fmt.Printf("engine version %s\n", engineVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&assetManifest, "assets", "",
		"path to a TOML asset manifest to load before running")
	rootCmd.AddCommand(getSizeCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(abortCmd)
	rootCmd.AddCommand(queryCacheCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
