package logger

import (
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

var (
	Info    = log.New(os.Stdout, "[INFO] ", flags)
	Warning = log.New(os.Stdout, "[WARN] ", flags)
	Error   = log.New(os.Stderr, "[ERROR] ", flags)
	Debug   = log.New(os.Stdout, "[DEBUG] ", flags)
	HTTP    = log.New(os.Stdout, "[HTTP] ", log.Ldate|log.Ltime)
)

// Setup reconfigures the leveled loggers for the current process. main calls this
// first thing; packages may log before Setup since the defaults above are usable.
func Setup() {
	Info = log.New(os.Stdout, "[INFO] ", flags)
	Warning = log.New(os.Stdout, "[WARN] ", flags)
	Error = log.New(os.Stderr, "[ERROR] ", flags)
	Debug = log.New(os.Stdout, "[DEBUG] ", flags)
	HTTP = log.New(os.Stdout, "[HTTP] ", log.Ldate|log.Ltime)
}
