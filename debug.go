package sym

import (
	"fmt"
	"log"
	"sync/atomic"
)

var (
	debugLogger atomic.Value // *log.Logger
	verifyMode  int32
)

// SetDebugLogger installs a logger that traces how reductions are built
// and simplified. Passing nil disables tracing.
func SetDebugLogger(l *log.Logger) {
	debugLogger.Store(l)
}

func debugf(f string, args ...interface{}) {
	l, _ := debugLogger.Load().(*log.Logger)
	if l != nil {
		l.Printf(f, args...)
	}
}

// SetVerify enables or disables verification mode and returns the
// previous setting. In verification mode, arithmetic results are checked
// against the interval arithmetic of their operands, and any mismatch
// panics.
func SetVerify(on bool) bool {
	var v int32
	if on {
		v = 1
	}
	return atomic.SwapInt32(&verifyMode, v) == 1
}

func verifying() bool {
	return atomic.LoadInt32(&verifyMode) == 1
}

func verifyf(ok bool, f string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("verification failed: "+f, args...))
	}
}
