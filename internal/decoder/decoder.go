// Package decoder implements the Command Decoder: it parses broker
// payloads into the gate's small command alphabet and enqueues them.
package decoder

import (
	"encoding/json"
	"log"

	"github.com/meridian-iot/gatekeeper/internal/logic"
)

type payload struct {
	Cmd string `json:"cmd"`
}

// Decode parses data as {"cmd": "<OPEN|CLOSE|STOP|TOGGLE|LAMP_ON|LAMP_OFF>"},
// matching case-insensitively. Any parse failure or unrecognized value
// returns ok=false; callers are expected to drop silently (logging is
// done here).
func Decode(data []byte) (cmd logic.Command, ok bool) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("decoder: malformed payload: %v", err)
		return 0, false
	}
	c, ok := logic.ParseCommand(p.Cmd)
	if !ok {
		log.Printf("decoder: unrecognized command %q", p.Cmd)
		return 0, false
	}
	return c, true
}

// Enqueue decodes data and, on success, offers it to queue without
// blocking. A full queue silently drops the command.
func Enqueue(data []byte, queue *logic.CommandQueue) {
	cmd, ok := Decode(data)
	if !ok {
		return
	}
	if !queue.TryEnqueue(cmd) {
		log.Printf("decoder: command queue full, dropping %s", cmd)
	}
}
