package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// GENCODE FTP URLs
const (
	gencodeBaseURL = "https://ftp.ebi.ac.uk/pub/databases/gencode/Gencode_human/release_46"
	gencodeVersion = "v46"
)

// gencodeGTFURL returns the GTF URL for the given assembly under baseURL.
func gencodeGTFURL(baseURL, assembly string) string {
	switch strings.ToUpper(assembly) {
	case "GRCH37":
		return fmt.Sprintf("%s/GRCh37_mapping/gencode.%slift37.annotation.gtf.gz", baseURL, gencodeVersion)
	default:
		return fmt.Sprintf("%s/gencode.%s.annotation.gtf.gz", baseURL, gencodeVersion)
	}
}

// defaultDataDir returns ~/.genespan, or "" if the home directory is unknown.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".genespan")
}

func (c *cli) newDownloadCmd() *cobra.Command {
	var (
		assembly  string
		outputDir string
		baseURL   string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a GENCODE GTF annotation file",
		Long: `Download the GENCODE comprehensive gene annotation GTF for an assembly.

The downloaded file can be passed directly as <annotation-file>.`,
		Example: `  genespan download
  genespan download --assembly GRCh37 --dir /data/gencode`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir == "" {
				outputDir = defaultDataDir()
				if outputDir == "" {
					return fmt.Errorf("cannot determine home directory, use --dir")
				}
			}

			destDir := filepath.Join(outputDir, strings.ToLower(assembly))
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", destDir, err)
			}

			gtfURL := gencodeGTFURL(baseURL, assembly)
			gtfFile := filepath.Join(destDir, filepath.Base(gtfURL))

			fmt.Fprintf(c.stderr, "Downloading GENCODE %s annotations for %s...\n", gencodeVersion, assembly)
			if err := c.downloadFile(gtfURL, gtfFile); err != nil {
				return fmt.Errorf("download GTF: %w", err)
			}

			fmt.Fprintf(c.stderr, "\nDownload complete! To annotate coordinates, run:\n")
			fmt.Fprintf(c.stderr, "  genespan coordinates.txt %s\n", gtfFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	cmd.Flags().StringVar(&outputDir, "dir", "", "Output directory (default: ~/.genespan/)")
	cmd.Flags().StringVar(&baseURL, "base-url", gencodeBaseURL, "GENCODE release base URL")
	cmd.Flags().MarkHidden("base-url")

	return cmd
}

// downloadFile downloads url to destPath via a temporary file.
// Existing files are left untouched.
func (c *cli) downloadFile(url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(c.stderr, "  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	c.logger.Info("downloading", zap.String("url", url))
	fmt.Fprintf(c.stderr, "  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{
		Timeout: 30 * time.Minute, // Long timeout for large files
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{
		out:       c.stderr,
		total:     resp.ContentLength,
		lastPrint: time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Fprintf(c.stderr, "    Done: %s\n", formatSize(pw.downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	// Print progress every second
	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", formatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
