/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/gradenet/internal/usecase/transcript"
)

// seedCmd loads a YAML transcript into the database.
var seedCmd = &cobra.Command{
	Use:   "seed <transcript.yaml | https://...>",
	Short: "Load semesters and courses from a YAML transcript",
	Long: `Loads a YAML transcript through the same validation as the API. Remote transcripts are
downloaded once and cached; use --no-cache to fetch again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		path, err := resolveTranscript(cmd.Context(), args[0], cacheDir, noCache)
		if err != nil {
			return err
		}
		t, err := transcript.ParseFile(path)
		if err != nil {
			return err
		}
		if dryRun {
			courses := 0
			for _, s := range t.Semesters {
				courses += len(s.Courses)
			}
			cmd.Printf("transcript parsed: %d semesters, %d courses\n", len(t.Semesters), courses)
			return nil
		}

		container, cleanup, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		loader := transcript.NewLoader(container.Semesters, container.Courses, container.Settings)
		res, err := loader.Load(cmd.Context(), t)
		if err != nil {
			if res != nil && res.Semesters > 0 {
				container.Logger.WithField("semesters", res.Semesters).WithField("courses", res.Courses).
					Warn("transcript partially loaded")
			}
			return err
		}
		cmd.Printf("seeded %d semesters, %d courses\n", res.Semesters, res.Courses)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("cache-dir", "", "download cache directory (default: user cache dir/gradenet)")
	seedCmd.Flags().Bool("no-cache", false, "ignore the download cache and fetch again")
	seedCmd.Flags().Bool("dry-run", false, "only parse the transcript")
}

// resolveTranscript returns a local path for source, downloading http(s) sources into the cache.
func resolveTranscript(ctx context.Context, source, cacheDirFlag string, noCache bool) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return source, nil
	}
	cacheDir, path, cached, err := prepareCachePath(source, cacheDirFlag, noCache)
	if err != nil {
		return "", err
	}
	if cached {
		return path, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}
	if err := downloadFile(ctx, source, path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("download transcript: %w", err)
	}
	return path, nil
}

// prepareCachePath decides cache location and returns (cacheDir, filePath, fromCache, error)
func prepareCachePath(url, cacheDirFlag string, noCache bool) (string, string, bool, error) {
	var base string
	if cacheDirFlag != "" {
		base = cacheDirFlag
	} else {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return "", "", false, fmt.Errorf("locate user cache dir: %w", err)
		}
		base = filepath.Join(userCache, "gradenet")
	}
	// stable filename from URL hash
	name := fmt.Sprintf("transcript-%08x.yaml", crc32.ChecksumIEEE([]byte(url)))
	path := filepath.Join(base, name)
	if !noCache {
		if st, err := os.Stat(path); err == nil && st.Size() > 0 {
			return base, path, true, nil
		}
	}
	return base, path, false, nil
}

func downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return nil
}
