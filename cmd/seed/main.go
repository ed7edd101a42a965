package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/cybersmrt-tony/cnctd.ai/internal/app"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/library"
	"github.com/spf13/cobra"
)

const appName = "cnctd"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		manifestPath string
		uploadDir    string
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Import avatars and image metadata into the library",
		Long:         "Reads a JSON manifest with avatars and images, upserts them into Postgres and optionally uploads image files to S3.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runSeed(ctx, cmd, manifestPath, uploadDir)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the JSON manifest")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "", "directory with image files, resolved by file_path")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, manifestPath, uploadDir string) error {
	f, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	manifest, err := library.ReadManifest(f)
	if err != nil {
		return err
	}

	var files fs.FS
	if uploadDir != "" {
		files = os.DirFS(uploadDir)
	}

	cfg, err := app.NewEnvConfig(appName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a := app.New(appName+"_seed", cfg)

	svc, closeDB, err := a.NewLibrary(ctx, files != nil)
	if err != nil {
		return err
	}
	defer closeDB()

	report, err := svc.Seed(ctx, manifest, files)
	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "avatars: %d, images: %d, uploaded: %d, skipped: %d\n",
			report.Avatars, report.Images, report.Uploaded, report.Skipped)
	}
	return err
}
