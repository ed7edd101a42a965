package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
)

const exposureStatsName = "exposure_stats"

// ExposureStats раз в час публикует размер библиотеки и число записей об отправках по аватарам.
// Журнал user_received_images растёт без ограничений, gauge'и дают за этим следить
type ExposureStats struct {
	imageRepo repository.IAvatarImageRepo
	dbStats   func() sql.DBStats // может быть nil
	metrics   *metrics.Metrics
	log       *slog.Logger
	started   bool
}

func NewExposureStats(imageRepo repository.IAvatarImageRepo, dbStats func() sql.DBStats, m *metrics.Metrics, log *slog.Logger) *ExposureStats {
	return &ExposureStats{
		imageRepo: imageRepo,
		dbStats:   dbStats,
		metrics:   m,
		log:       log,
	}
}

func (j *ExposureStats) Name() string {
	return exposureStatsName
}

// NextRun первый запуск сразу, дальше в начале каждого часа
func (j *ExposureStats) NextRun(now time.Time) time.Time {
	if !j.started {
		j.started = true
		return now
	}
	return now.Truncate(time.Hour).Add(time.Hour)
}

func (j *ExposureStats) Run(ctx context.Context) error {
	stats, err := j.imageRepo.ExposureStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect exposure stats: %w", err)
	}

	// только аватары из текущей выборки
	j.metrics.LibrarySize.Reset()
	j.metrics.ReceivedImages.Reset()

	var library, received int64
	for _, s := range stats {
		j.metrics.LibrarySize.WithLabelValues(s.AvatarID).Set(float64(s.LibrarySize))
		j.metrics.ReceivedImages.WithLabelValues(s.AvatarID).Set(float64(s.ReceivedImages))
		library += s.LibrarySize
		received += s.ReceivedImages
	}

	if j.dbStats != nil {
		j.metrics.RecordDBPoolStats(j.dbStats())
	}

	j.log.Info("exposure stats collected",
		"avatars", len(stats),
		"library_size", library,
		"received_images", received)
	return nil
}
