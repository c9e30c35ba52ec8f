package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats хранит снимок ресурсов машины и текущего процесса.
type HostStats struct {
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64
	AvailMemory  uint64
	ProcessRSS   uint64
	ProcessCPU   float64
}

// ReadHostStats собирает статистику через gopsutil. Недоступные значения
// остаются нулевыми: на некоторых платформах часть счётчиков не читается.
func ReadHostStats() HostStats {
	var s HostStats

	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		s.PhysicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.AvailMemory = vm.Available
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			s.ProcessRSS = mi.RSS
		}
		if pct, err := p.CPUPercent(); err == nil {
			s.ProcessCPU = pct
		}
	}
	return s
}

// DefaultWorkers выбирает число потоков декодирования: логические ядра,
// а если gopsutil их не вернул, то runtime.NumCPU.
func (s HostStats) DefaultWorkers() int {
	if s.LogicalCPUs > 0 {
		return s.LogicalCPUs
	}
	return runtime.NumCPU()
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPU: %d логич./%d физ. | RAM: %s свободно из %s | RSS: %s | CPU процесса: %.1f%%",
		s.LogicalCPUs, s.PhysicalCPUs, FormatBytes(s.AvailMemory), FormatBytes(s.TotalMemory), FormatBytes(s.ProcessRSS), s.ProcessCPU)
}

// FormatBytes печатает размер в двоичных единицах.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
