package services

import (
	"context"
	"log"
	"time"

	"city-server/models"
)

// Pinger is anything that can answer a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService probes all three backends. The service stays up on backend
// failures and reports them as degraded instead.
type HealthService struct {
	mysql   Pinger
	mongodb Pinger
	redis   Pinger
	timeout time.Duration
	now     func() time.Time
}

func NewHealthService(mysql, mongodb, redis Pinger, timeout time.Duration) *HealthService {
	return &HealthService{
		mysql:   mysql,
		mongodb: mongodb,
		redis:   redis,
		timeout: timeout,
		now:     time.Now,
	}
}

func (s *HealthService) Check(ctx context.Context) *models.HealthStatus {
	status := &models.HealthStatus{
		MySQL:     s.probe(ctx, "mysql", s.mysql),
		MongoDB:   s.probe(ctx, "mongodb", s.mongodb),
		Redis:     s.probe(ctx, "redis", s.redis),
		Timestamp: s.now(),
	}
	status.Status = "healthy"
	if !status.MySQL || !status.MongoDB || !status.Redis {
		status.Status = "degraded"
	}
	return status
}

func (s *HealthService) probe(ctx context.Context, name string, p Pinger) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		log.Printf("%s health check failed: %v", name, err)
		return false
	}
	return true
}
