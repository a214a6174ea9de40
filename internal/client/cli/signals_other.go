//go:build !unix

package cli

import "os"

func visibilitySignals() []os.Signal { return nil }
