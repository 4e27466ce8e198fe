package health

import (
	"context"
	"runtime"
	"time"

	"dorm-backend/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is the part of the store the health checker needs
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store     Pinger
	driver    string
	startedAt time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    string         `json:"cache"`
}

type DatabaseHealth struct {
	Driver       string `json:"driver"`
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type DetailedStatus struct {
	HealthStatus
	Uptime        string  `json:"uptime"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

func NewHealthChecker(store Pinger, driver string) *HealthChecker {
	return &HealthChecker{store: store, driver: driver, startedAt: time.Now()}
}

// CheckBasic pings the store. A missing Redis only degrades caching and does
// not make the service unhealthy.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	cacheStatus := "disabled"
	if cache.Enabled() {
		cacheStatus = "unhealthy"
		if cache.IsHealthy() {
			cacheStatus = "healthy"
		}
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    cacheStatus,
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	status := "healthy"
	if err != nil {
		status = "unhealthy"
	}
	return DatabaseHealth{
		Driver:       h.driver,
		Status:       status,
		ResponseTime: responseTime,
	}
}

// CheckDetailed adds host resource usage for the admin dashboard
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       formatUptime(time.Since(h.startedAt)),
		Goroutines:   runtime.NumGoroutine(),
	}

	if cpuPercents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		d.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		d.MemoryPercent = memStats.UsedPercent
		d.MemoryUsed = formatBytes(memStats.Used)
		d.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.UsageWithContext(ctx, "/"); err == nil {
		d.DiskPercent = diskStats.UsedPercent
		d.DiskUsed = formatBytes(diskStats.Used)
		d.DiskTotal = formatBytes(diskStats.Total)
	}
	return d
}
