// Package goroutine keeps a panic in one background task (an event handler,
// an alert subscriber, a single session recompute) from taking down the
// server or the worker.
package goroutine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// PanicError is what Guard returns when the guarded function panicked.
type PanicError struct {
	Task  string
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Task, e.Value)
}

// Guard calls fn on the current goroutine and turns a panic into a *PanicError.
func Guard(task string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Task: task, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// SafeGo runs fn on a new goroutine. A panic is logged with its stack and
// keysAndValues, then dropped.
func SafeGo(log logger.Interface, task string, fn func(), keysAndValues ...interface{}) {
	go func() {
		err := Guard(task, func() error {
			fn()
			return nil
		})

		var pe *PanicError
		if errors.As(err, &pe) {
			fields := append([]interface{}{
				"task", task,
				"panic", fmt.Sprint(pe.Value),
				"stack", string(pe.Stack),
			}, keysAndValues...)
			log.Errorw("background task panicked", fields...)
		}
	}()
}
