package api

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var apiLog *log.Logger

func init() {
	if os.Getenv("RV32I_EMU_DEBUG") != "" {
		// Note: file handle intentionally left open for the process lifetime;
		// the OS reclaims it on exit.
		logPath := filepath.Join(os.TempDir(), "rv32i-emu-api-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			apiLog = log.New(os.Stderr, "API: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			apiLog = log.New(f, "API: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		apiLog = log.New(io.Discard, "", 0)
	}
}

func debugLog(format string, args ...interface{}) {
	apiLog.Printf(format, args...)
}
