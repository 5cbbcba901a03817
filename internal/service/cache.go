// CacheService - LRU-кэш конфигурации движка с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable. Данные батчей и узлов
// не кэшируются: кэшируется только редко меняющаяся конфигурация.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sd_config_cache_hits_total",
		Help: "Общее количество попаданий в кэш конфигурации движка.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sd_config_cache_misses_total",
		Help: "Общее количество промахов кэша конфигурации движка.",
	})
)

// CacheService - LRU-кэш EngineConfig с автоматическим TTL.
// Каждый экземпляр сервиса имеет собственный in-memory кэш.
type CacheService struct {
	cache *expirable.LRU[string, *model.EngineConfig]
}

// NewCacheService создаёт кэш. ttl <= 0 отключает кэширование (возвращает nil).
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		return nil
	}
	return &CacheService{
		cache: expirable.NewLRU[string, *model.EngineConfig](maxSize, nil, ttl),
	}
}

// Get возвращает конфигурацию по ключу. Безопасен для nil-получателя.
func (c *CacheService) Get(key string) (*model.EngineConfig, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.cache.Get(key)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись.
func (c *CacheService) Set(key string, cfg *model.EngineConfig) {
	if c == nil {
		return
	}
	c.cache.Add(key, cfg)
}

// Purge очищает кэш.
func (c *CacheService) Purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}
