package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of machine load for performance reports.
type HostStats struct {
	LogicalCPUs int
	CPUPercent  float64
	MemUsedPct  float64
	MemTotalMB  uint64
}

// ReadHostStats samples CPU and memory use. Probes that fail leave their
// fields zero.
func ReadHostStats() HostStats {
	s := HostStats{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		s.LogicalCPUs = n
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsedPct = vm.UsedPercent
		s.MemTotalMB = vm.Total / (1 << 20)
	}
	return s
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPUs: %d | CPU: %.1f%% | RAM: %.1f%% of %d MB",
		s.LogicalCPUs, s.CPUPercent, s.MemUsedPct, s.MemTotalMB)
}
