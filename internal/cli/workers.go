package cli

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// blenderMemory is the memory budget of one background Blender render.
const blenderMemory = 2 << 30

// defaultWorkers sizes the batch pool for an engine. Blender renders are
// bounded by available memory and use half the logical cores, since Blender
// itself is multi-threaded. Lightweight engines use every core.
func defaultWorkers(engine string) int {
	cores, err := cpu.Counts(true)
	if err != nil || cores < 1 {
		cores = runtime.NumCPU()
	}
	if engine != engineBlender {
		return cores
	}
	n := max(cores/2, 1)
	if vm, err := mem.VirtualMemory(); err == nil {
		n = min(n, max(int(vm.Available/blenderMemory), 1))
	}
	return n
}
