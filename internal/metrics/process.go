package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Process собирает метрики процесса через gopsutil при каждом scrape
type Process struct {
	startTime time.Time
	proc      *process.Process

	cpuDesc        *prometheus.Desc
	rssDesc        *prometheus.Desc
	goroutinesDesc *prometheus.Desc
	uptimeDesc     *prometheus.Desc
}

// NewProcess создаёт коллектор для текущего процесса и регистрирует его в reg
func NewProcess(reg prometheus.Registerer) (*Process, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("process stats: %w", err)
	}

	p := &Process{
		startTime:      time.Now(),
		proc:           proc,
		cpuDesc:        prometheus.NewDesc(namespace+"_process_cpu_percent", "Загрузка CPU процессом в процентах.", nil, nil),
		rssDesc:        prometheus.NewDesc(namespace+"_process_rss_bytes", "Резидентная память процесса.", nil, nil),
		goroutinesDesc: prometheus.NewDesc(namespace+"_goroutines", "Число горутин.", nil, nil),
		uptimeDesc:     prometheus.NewDesc(namespace+"_uptime_seconds", "Время работы процесса.", nil, nil),
	}
	if err := reg.Register(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Describe реализует prometheus.Collector
func (p *Process) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.cpuDesc
	ch <- p.rssDesc
	ch <- p.goroutinesDesc
	ch <- p.uptimeDesc
}

// Collect реализует prometheus.Collector. Недоступные показатели пропускаются.
func (p *Process) Collect(ch chan<- prometheus.Metric) {
	if cpuPercent, err := p.CPUPercent(); err == nil {
		ch <- prometheus.MustNewConstMetric(p.cpuDesc, prometheus.GaugeValue, cpuPercent)
	}
	if mem, err := p.proc.MemoryInfo(); err == nil {
		ch <- prometheus.MustNewConstMetric(p.rssDesc, prometheus.GaugeValue, float64(mem.RSS))
	}
	ch <- prometheus.MustNewConstMetric(p.goroutinesDesc, prometheus.GaugeValue, float64(runtime.NumGoroutine()))
	ch <- prometheus.MustNewConstMetric(p.uptimeDesc, prometheus.GaugeValue, p.Uptime().Seconds())
}

// Uptime время с создания коллектора
func (p *Process) Uptime() time.Duration {
	return time.Since(p.startTime)
}

// CPUPercent возвращает использование CPU процессом в процентах
func (p *Process) CPUPercent() (float64, error) {
	// Получаем процент использования CPU за последний интервал
	cpuPercent, err := p.proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, попробуем системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}

	return cpuPercent, nil
}

// MemoryStats возвращает статистику памяти Go-рантайма в MB
func MemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"alloc_mb":      float64(m.Alloc) / 1024 / 1024,
		"sys_mb":        float64(m.Sys) / 1024 / 1024,
		"heap_alloc_mb": float64(m.HeapAlloc) / 1024 / 1024,
		"num_gc":        m.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}
}

// FormatUptime выводит длительность в виде "1д 2ч 3м 4с"
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}
