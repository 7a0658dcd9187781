package misc

import (
	"math"
	"runtime"
	"time"
)

// Set once, the server start
var started = time.Now()

func bToMib(bytes uint64) float64 {
	mib := float64(bytes) / (1024 * 1024)
	return math.Round(mib*100) / 100
}

// Runtime stats of this instance
func getServerStats() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]any{
		"uptime":          time.Since(started).Round(time.Second).String(),
		"go_version":      runtime.Version(),
		"num_cpu":         runtime.NumCPU(),
		"gomaxprocs":      runtime.GOMAXPROCS(0),
		"num_goroutine":   runtime.NumGoroutine(),
		"num_gc":          m.NumGC,
		"mem_alloc_MB":    bToMib(m.Alloc),
		"mem_sys_MB":      bToMib(m.Sys),
		"mem_heap_in_use": bToMib(m.HeapInuse),
	}
}
