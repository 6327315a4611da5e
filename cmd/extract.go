package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukinoko-kun/unmap/archive"
	"github.com/tsukinoko-kun/unmap/extract"
	"github.com/tsukinoko-kun/unmap/fetch"
	"github.com/tsukinoko-kun/unmap/ignore"
	"github.com/tsukinoko-kun/unmap/logger"
	"github.com/tsukinoko-kun/unmap/meta"
	"github.com/tsukinoko-kun/unmap/sourcemap"
	"github.com/tsukinoko-kun/unmap/statusui"
	"github.com/tsukinoko-kun/unmap/utils"
)

var extractCmd = &cobra.Command{
	Use:   "extract [source-map-url-or-path]",
	Short: "Extract sources from a source map into a zip archive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		location := ""
		if len(args) > 0 {
			location = args[0]
		} else {
			var err error
			location, err = promptMapLocation(ctx)
			if err != nil {
				return err
			}
		}
		if location == "" {
			return errors.New("source map location required")
		}

		client, err := fetch.NewClient(fetch.Options{
			Timeout:   utils.Must(cmd.Flags().GetDuration("timeout")),
			UserAgent: utils.Must(cmd.Flags().GetString("user-agent")),
			Proxy:     utils.Must(cmd.Flags().GetString("proxy")),
			Insecure:  utils.Must(cmd.Flags().GetBool("insecure")),
		})
		if err != nil {
			return err
		}

		mapData, base, fetcher, err := loadMap(cmd, location, client)
		if err != nil {
			return fmt.Errorf("load source map: %w", err)
		}

		doc, err := sourcemap.Parse(mapData)
		if err != nil {
			return err
		}
		logger.Printf("map lists %d sources", len(doc.Sources))

		if err := statusui.Start(); err != nil {
			return err
		}
		defer statusui.Stop()

		tree := extract.NewTree()
		if utils.Must(cmd.Flags().GetBool("save-map")) {
			tree.InsertRaw(mapFileName(location), mapData)
		}

		tree, sum, err := extract.Run(ctx, doc, extract.Options{
			Fetcher:      fetcher,
			Base:         base,
			Concurrency:  utils.Must(cmd.Flags().GetInt("concurrency")),
			Exclude:      ignore.New(utils.Must(cmd.Flags().GetStringArray("exclude"))),
			InferImports: utils.Must(cmd.Flags().GetBool("infer-imports")),
			Tree:         tree,
			Progress: func(done, total int, rec extract.ResolvedSource) {
				statusui.Set("extract", statusui.ProgressStatus{
					Label: "Extracting",
					Done:  done,
					Total: total,
				})
				if rec.Origin == extract.OriginPlaceholder {
					statusui.Log(fmt.Sprintf("unresolved: %s", rec.Raw), statusui.LogLevelWarn)
				}
			},
		})
		if err != nil {
			return err
		}
		statusui.Clear("extract")

		out := utils.Must(cmd.Flags().GetString("output"))
		if err := archive.WriteFile(tree, out); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}

		statusui.Stop()
		printSummary(sum, tree.Len(), out)
		return nil
	},
}

// loadMap obtains the raw map document. HTTP(S) locations fetch over the
// network and use the map URL as base for relative sources; anything else is
// a local file whose directory serves the missing sources.
func loadMap(cmd *cobra.Command, location string, client *fetch.Client) ([]byte, *url.URL, fetch.Fetcher, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		base, err := url.Parse(location)
		if err != nil {
			return nil, nil, nil, err
		}
		data, err := client.Fetch(cmd.Context(), location)
		if err != nil {
			return nil, nil, nil, err
		}
		return data, base, client, nil
	}

	if !filepath.IsAbs(location) {
		location = filepath.Join(meta.Pwd(), location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, nil, nil, err
	}
	return data, nil, fetch.NewDir(filepath.Dir(location)), nil
}

func mapFileName(location string) string {
	name := path.Base(strings.ReplaceAll(location, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "sourcemap.json"
	}
	return sourcemap.Normalize(name)
}

func printSummary(sum *extract.Summary, archived int, out string) {
	fmt.Printf("archived %d files to %s\n", archived, out)
	fmt.Printf("  sources: %d total, %d embedded, %d fetched, %d unresolved\n",
		sum.TotalSources, sum.Embedded, sum.Fetched, sum.Placeholders)
	if len(sum.Excluded) > 0 {
		fmt.Printf("  excluded: %d\n", len(sum.Excluded))
	}
	for _, m := range sum.ManifestFiles {
		fmt.Printf("  manifest: %s\n", m)
	}
	for _, rep := range sum.Manifests {
		for _, dep := range rep.Dependencies {
			kind := "dependency"
			if dep.Dev {
				kind = "dev dependency"
			}
			logger.Printf("  %s %s@%s (valid range: %t)", kind, dep.Name, dep.Range, dep.Valid)
		}
	}
	if len(sum.InferredPackages) > 0 {
		fmt.Printf("  inferred packages: %s\n", strings.Join(sum.InferredPackages, ", "))
	}
	for _, f := range sum.FailedSources {
		logger.Errorf("failed: %s (%s)", f.Source, f.Reason)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", "extracted_sources.zip", "output archive path")
	extractCmd.Flags().Duration("timeout", fetch.DefaultTimeout, "per-request timeout")
	extractCmd.Flags().Int("concurrency", 4, "parallel source fetches")
	extractCmd.Flags().StringArray("exclude", nil, "gitignore-style pattern to drop from the archive (repeatable)")
	extractCmd.Flags().String("user-agent", "unmap/"+meta.Version, "User-Agent header")
	extractCmd.Flags().String("proxy", "", "proxy URL (e.g. http://127.0.0.1:8080)")
	extractCmd.Flags().Bool("insecure", false, "skip TLS verification")
	extractCmd.Flags().Bool("save-map", false, "include the map document itself in the archive")
	extractCmd.Flags().Bool("infer-imports", true, "scan sources for npm imports when the map has no manifest")
}
