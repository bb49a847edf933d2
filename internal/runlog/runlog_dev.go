//go:build dev

package runlog

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

const defaultSocket = "/tmp/relativize-log.sock"
const appName = "relativize"

// socketEnv overrides the socket path.
const socketEnv = "RELATIVIZE_LOG_SOCKET"

type entry struct {
	App       string `json:"app"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Fields    Fields `json:"fields,omitempty"`
}

var (
	connMu sync.Mutex
	conn   net.Conn
)

func emit(level Level, message string, fields Fields) {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		socket := os.Getenv(socketEnv)
		if socket == "" {
			socket = defaultSocket
		}
		c, err := net.Dial("unix", socket)
		if err != nil {
			return
		}
		conn = c
	}

	data, err := json.Marshal(entry{
		App:       appName,
		Level:     level,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Fields:    fields,
	})
	if err != nil {
		return
	}
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		_ = conn.Close()
		conn = nil
	}
}
