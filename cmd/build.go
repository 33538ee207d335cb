package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/PsiACE/psiace/internal/config"
	"github.com/PsiACE/psiace/internal/content"
	"github.com/PsiACE/psiace/internal/feed"
	"github.com/PsiACE/psiace/internal/markdown"
	"github.com/PsiACE/psiace/internal/render"
	"github.com/PsiACE/psiace/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from content, layouts, and static assets",
	Long: `The build command renders the Markdown files under the content directory,
extracts front matter, rewrites mermaid code blocks into diagram containers,
applies the layouts, copies static assets, writes the RSS feeds and generates
the site in the configured output directory (default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd.Context(), appConfig, logger)
	},
}

func runBuildProcess(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	log.Info().
		Str("outputDir", cfg.OutputDir).
		Str("siteURL", cfg.SiteURL).
		Msg("starting build")

	siteCfg, err := loadSite(cfg.SiteFile, log)
	if err != nil {
		return err
	}
	if err := siteCfg.Validate(); err != nil {
		return fmt.Errorf("invalid site file %s: %w", cfg.SiteFile, err)
	}

	if _, err := os.Stat(cfg.ContentDir); os.IsNotExist(err) {
		return fmt.Errorf("content directory '%s' not found. Please create it and add your Markdown files", cfg.ContentDir)
	}

	engine := markdown.New(
		markdown.WithHighlighting(cfg.HighlightStyle),
		markdown.WithHardWraps(cfg.HardWraps),
	)
	set, err := content.Load(ctx, cfg.ContentDir, engine, content.Options{
		IncludeDrafts: cfg.Drafts,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	log.Info().Int("entries", len(set.All())).Strs("collections", set.Collections()).Msg("content collected")

	renderer, err := render.New(cfg.LayoutsDir, siteCfg, log)
	if err != nil {
		return err
	}

	log.Debug().Str("dir", cfg.OutputDir).Msg("cleaning output directory")
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); !os.IsNotExist(err) {
		if err := copyDirContents(cfg.StaticDir, cfg.OutputDir, log); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
		log.Debug().Str("dir", cfg.StaticDir).Msg("static assets copied")
	} else {
		log.Debug().Str("dir", cfg.StaticDir).Msg("no static directory, skipping copy")
	}

	if err := renderer.RenderSite(cfg.OutputDir, set); err != nil {
		return err
	}

	if err := writeFeeds(cfg, siteCfg, set, log); err != nil {
		return err
	}

	log.Info().Msg("build completed")
	return nil
}

// loadSite reads the site file, falling back to the built-in site data when
// the file does not exist.
func loadSite(path string, log zerolog.Logger) (*site.Config, error) {
	if path == "" {
		return site.Default(), nil
	}
	cfg, err := site.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("file", path).Msg("site file not found, using built-in site data")
		return site.Default(), nil
	}
	return cfg, err
}

func writeFeeds(cfg config.Config, siteCfg *site.Config, set *content.Set, log zerolog.Logger) error {
	if !siteCfg.Custom.Features.EnableRSS {
		log.Debug().Msg("rss disabled")
		return nil
	}
	for _, fc := range siteCfg.Feeds {
		f, err := feed.Build(siteCfg.Metadata, cfg.SiteURL, set.Collection(fc.Collection), fc.LinkPrefix)
		if err != nil {
			return fmt.Errorf("failed to build feed for '%s': %w", fc.Collection, err)
		}
		if err := feed.Write(cfg.OutputDir, fc.Path, f); err != nil {
			return err
		}
		log.Info().Str("path", fc.Path).Int("items", len(f.Items)).Msg("feed written")
	}
	return nil
}

// copyDirContents recursively copies contents from src to dst.
func copyDirContents(src, dst string, log zerolog.Logger) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			// New directories get os.ModePerm filtered by umask, not the source mode.
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath, log); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

// copyFile copies a single file from srcFile to dstFile, keeping its mode.
func copyFile(srcFile, dstFile string, log zerolog.Logger) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", filepath.Dir(dstFile), err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}

	srcInfo, err := srcF.Stat()
	if err != nil {
		log.Warn().Err(err).Str("file", srcFile).Msg("could not stat source file to preserve permissions")
		return nil
	}
	if err := os.Chmod(dstFile, srcInfo.Mode()); err != nil {
		log.Warn().Err(err).Str("file", dstFile).Msg("could not set permissions")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
