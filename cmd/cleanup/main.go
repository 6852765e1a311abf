package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/database"
	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/pkg/logger"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually delete files")
	cleanBranding = flag.Bool("clean-branding", true, "Clean branding assets no longer referenced")
	cleanAvatars  = flag.Bool("clean-avatars", true, "Clean avatars no longer referenced by any user")
)

func main() {
	flag.Parse()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	cfg.Log.Format = "console"
	log := logger.New(cfg.Log)
	log.Info().Bool("dry_run", *dryRun).Msg("Starting cleanup task")

	if cfg.Storage.Provider != "" && cfg.Storage.Provider != storage.ProviderLocal {
		log.Warn().Str("provider", cfg.Storage.Provider).Msg("Cleanup only supports local storage, nothing to do")
		return
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	local, err := storage.NewLocal(cfg.Storage.Local.Root, cfg.Storage.Local.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local storage")
	}

	ctx := context.Background()
	var total summary

	// 1. 品牌资源：只保留当前 logo/favicon
	if *cleanBranding {
		referenced, err := brandingReferences(repository.NewBrandingRepository(db), local)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load branding settings")
		}
		total.add(sweep(ctx, log, local, "branding", referenced, *dryRun))
	}

	// 2. 头像：只保留仍被用户引用的文件
	if *cleanAvatars {
		referenced, err := avatarReferences(db, local)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load user avatars")
		}
		total.add(sweep(ctx, log, local, "avatars", referenced, *dryRun))
	}

	log.Info().
		Int("orphan_files", total.files).
		Str("orphan_size", formatSize(total.size)).
		Msg("Cleanup summary")
	if *dryRun {
		log.Warn().Msg("DRY RUN MODE - no files were deleted, run with -dry-run=false to delete")
	} else {
		log.Info().Msg("Cleanup completed")
	}
}

type summary struct {
	files int
	size  int64
}

func (s *summary) add(o summary) {
	s.files += o.files
	s.size += o.size
}

// brandingReferences 当前品牌配置引用的对象 key
func brandingReferences(repo *repository.BrandingRepository, local *storage.Local) (map[string]bool, error) {
	referenced := make(map[string]bool)

	branding, err := repo.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return referenced, nil
	}
	if err != nil {
		return nil, err
	}

	for _, p := range []*string{branding.LogoPath, branding.FaviconPath} {
		if p != nil && *p != "" {
			referenced[*p] = true
		}
	}
	for _, u := range []*string{branding.LogoURL, branding.FaviconURL} {
		if u == nil {
			continue
		}
		if key, ok := local.KeyFromURL(*u); ok {
			referenced[key] = true
		}
	}
	return referenced, nil
}

// avatarReferences 用户头像引用的对象 key
func avatarReferences(db *gorm.DB, local *storage.Local) (map[string]bool, error) {
	var images []string
	err := db.Model(&model.User{}).
		Where("image IS NOT NULL AND image <> ''").
		Pluck("image", &images).Error
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool, len(images))
	for _, u := range images {
		if key, ok := local.KeyFromURL(u); ok {
			referenced[key] = true
		}
	}
	return referenced, nil
}

// orphans prefix 下未被引用的 key
func orphans(keys []string, referenced map[string]bool) []string {
	var out []string
	for _, key := range keys {
		if !referenced[key] {
			out = append(out, key)
		}
	}
	return out
}

func sweep(ctx context.Context, log zerolog.Logger, local *storage.Local, prefix string, referenced map[string]bool, dryRun bool) summary {
	keys, err := local.List(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to list files")
		return summary{}
	}

	var result summary
	for _, key := range orphans(keys, referenced) {
		info, err := os.Stat(filepath.Join(local.Root(), filepath.FromSlash(key)))
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to stat file")
			continue
		}

		log.Info().Str("key", key).Str("size", formatSize(info.Size())).Msg("Orphan file")
		if !dryRun {
			if err := local.Delete(ctx, key); err != nil {
				log.Error().Err(err).Str("key", key).Msg("Failed to delete")
				continue
			}
		}
		result.files++
		result.size += info.Size()
	}

	log.Info().
		Str("prefix", prefix).
		Int("scanned", len(keys)).
		Int("orphans", result.files).
		Msg("Scan finished")
	return result
}

// formatSize 格式化文件大小
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
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
