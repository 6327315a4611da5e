package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsukinoko-kun/unmap/archive"
	"github.com/tsukinoko-kun/unmap/crawl"
	"github.com/tsukinoko-kun/unmap/fetch"
	"github.com/tsukinoko-kun/unmap/ignore"
	"github.com/tsukinoko-kun/unmap/logger"
	"github.com/tsukinoko-kun/unmap/meta"
	"github.com/tsukinoko-kun/unmap/statusui"
	"github.com/tsukinoko-kun/unmap/utils"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <page-url>",
	Short: "Crawl a page, find its scripts and extract every reachable source map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := fetch.NewClient(fetch.Options{
			Timeout:   utils.Must(cmd.Flags().GetDuration("timeout")),
			UserAgent: utils.Must(cmd.Flags().GetString("user-agent")),
			Proxy:     utils.Must(cmd.Flags().GetString("proxy")),
			Insecure:  utils.Must(cmd.Flags().GetBool("insecure")),
		})
		if err != nil {
			return err
		}

		if err := statusui.Start(); err != nil {
			return err
		}
		defer statusui.Stop()

		tree, results, err := crawl.Run(cmd.Context(), args[0], crawl.Options{
			Client:       client,
			Concurrency:  utils.Must(cmd.Flags().GetInt("concurrency")),
			SaveMap:      utils.Must(cmd.Flags().GetBool("save-map")),
			Exclude:      ignore.New(utils.Must(cmd.Flags().GetStringArray("exclude"))),
			InferImports: utils.Must(cmd.Flags().GetBool("infer-imports")),
			Progress: func(msg string) {
				statusui.Log(msg, statusui.LogLevelInfo)
			},
		})
		if err != nil {
			return err
		}

		out := utils.Must(cmd.Flags().GetString("output"))
		if err := archive.WriteFile(tree, out); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}

		statusui.Stop()

		extracted := 0
		for _, r := range results {
			if r.Err != nil {
				logger.Printf("%s: %v", r.Script, r.Err)
				continue
			}
			extracted++
		}
		fmt.Printf("scripts: %d processed, %d with maps; archived %d files to %s\n",
			len(results), extracted, tree.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	crawlCmd.Flags().StringP("output", "o", "recovered.zip", "output archive path")
	crawlCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	crawlCmd.Flags().Int("concurrency", 4, "parallel script downloads")
	crawlCmd.Flags().StringArray("exclude", nil, "gitignore-style pattern to drop from the archive (repeatable)")
	crawlCmd.Flags().String("user-agent", "unmap/"+meta.Version, "User-Agent header")
	crawlCmd.Flags().String("proxy", "", "proxy URL (e.g. http://127.0.0.1:8080)")
	crawlCmd.Flags().Bool("insecure", false, "skip TLS verification")
	crawlCmd.Flags().Bool("save-map", false, "include each map document in the archive")
	crawlCmd.Flags().Bool("infer-imports", false, "scan sources for npm imports when a map has no manifest")
}
