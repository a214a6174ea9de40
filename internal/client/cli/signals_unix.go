//go:build unix

package cli

import (
	"os"
	"syscall"
)

// visibilitySignals первый сигнал уводит клиент в фон, второй возвращает
func visibilitySignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2}
}
