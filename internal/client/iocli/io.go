// Package iocli ввод и вывод интерактивного клиента.
package iocli

//go:generate moq -out io_mock.go . IO

// IO terminal interaction used by CLI commands
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}

// Confirm запрашивает подтверждение y/N. Пустой ответ означает отказ.
func Confirm(io IO, prompt string) (bool, error) {
	answer, err := io.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch answer {
	case "y", "Y", "yes", "Yes", "YES":
		return true, nil
	}
	return false, nil
}
