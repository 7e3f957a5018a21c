package preflight

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo is the environment snapshot shown by the doctor command.
type HostInfo struct {
	Hostname      string `json:"hostname"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernel_version,omitempty"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
	CPUCount      int    `json:"cpu_count"`
	MemoryTotalMB uint64 `json:"memory_total_mb"`
	MemoryFreeMB  uint64 `json:"memory_free_mb"`
}

// CollectHostInfo gathers best-effort host facts. Fields stay zero when a
// probe fails.
func CollectHostInfo() HostInfo {
	var info HostInfo

	if hi, err := host.Info(); err == nil {
		info.Hostname = hi.Hostname
		info.Platform = fmt.Sprintf("%s %s", hi.Platform, hi.PlatformVersion)
		info.KernelVersion = hi.KernelVersion
		info.UptimeSeconds = hi.Uptime
	}

	if n, err := cpu.Counts(true); err == nil {
		info.CPUCount = n
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotalMB = vm.Total / 1024 / 1024
		info.MemoryFreeMB = vm.Available / 1024 / 1024
	}

	return info
}
