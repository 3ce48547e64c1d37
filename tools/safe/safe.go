package safe

import (
	"MsgApp/logger"
)

// SafeGo starts a new goroutine that recovers from panic,
// so that a broken push/broadcast does not crash the process.
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[SafeGo] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
