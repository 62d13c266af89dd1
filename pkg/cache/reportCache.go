package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/autoinspect/inspection-service/internal/entity"
)

// ReportCache хранит собранные отчёты в Redis, чтобы повторные запросы
// дашборда не ходили в базу. Промах кэша не ошибка: вызывающий код
// падает обратно на postgres.
type ReportCache interface {
	Get(ctx context.Context, inspectionID string) (*entity.DamageReport, bool)
	Set(ctx context.Context, report *entity.DamageReport)
	Invalidate(ctx context.Context, inspectionID string)
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &reportCache{client: client, ttl: ttl}
}

func reportKey(inspectionID string) string {
	return fmt.Sprintf("inspection:report:%s", inspectionID)
}

func (c *reportCache) Get(ctx context.Context, inspectionID string) (*entity.DamageReport, bool) {
	data, err := c.client.Get(ctx, reportKey(inspectionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Errorf("Report cache read failed: %v", err)
		}
		return nil, false
	}

	var report entity.DamageReport
	if err := json.Unmarshal(data, &report); err != nil {
		logrus.Errorf("Report cache contained invalid payload: %v", err)
		return nil, false
	}

	return &report, true
}

func (c *reportCache) Set(ctx context.Context, report *entity.DamageReport) {
	data, err := json.Marshal(report)
	if err != nil {
		logrus.Errorf("Failed to marshal report for cache: %v", err)
		return
	}

	if err := c.client.Set(ctx, reportKey(report.InspectionID), data, c.ttl).Err(); err != nil {
		logrus.Errorf("Report cache write failed: %v", err)
	}
}

func (c *reportCache) Invalidate(ctx context.Context, inspectionID string) {
	if err := c.client.Del(ctx, reportKey(inspectionID)).Err(); err != nil {
		logrus.Errorf("Report cache invalidation failed: %v", err)
	}
}

// Noop cache для работы без Redis.
type noopCache struct{}

func NewNoopCache() ReportCache {
	return &noopCache{}
}

func (noopCache) Get(ctx context.Context, inspectionID string) (*entity.DamageReport, bool) {
	return nil, false
}

func (noopCache) Set(ctx context.Context, report *entity.DamageReport) {}

func (noopCache) Invalidate(ctx context.Context, inspectionID string) {}
