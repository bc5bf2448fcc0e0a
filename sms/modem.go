package sms

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// OpenModem opens the serial port of a GSM modem
func OpenModem(devicePath string, baudRate int) (io.ReadWriteCloser, error) {
	return serial.OpenPort(&serial.Config{
		Name:        devicePath,
		Baud:        baudRate,
		ReadTimeout: 5 * time.Second,
	})
}

// HardwareSender sends SMS using AT commands over a serial port. Only one
// command sequence runs on the port at a time.
type HardwareSender struct {
	mu    sync.Mutex
	port  io.ReadWriter
	pause time.Duration // wait between AT commands
}

func NewHardwareSender(port io.ReadWriter) *HardwareSender {
	return &HardwareSender{port: port, pause: time.Second}
}

// Send sends an SMS using the modem
func (h *HardwareSender) Send(sms *SMS) error {
	if err := sms.Check(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log.Printf("Sending SMS to %s", MaskPhone(sms.Recipient))

	// Set SMS to text mode
	if _, err := h.port.Write([]byte("AT+CMGF=1\r")); err != nil {
		return fmt.Errorf("failed to set text mode: %w", err)
	}
	time.Sleep(h.pause)

	// Set recipient
	cmd := fmt.Sprintf(`AT+CMGS="%s"`+"\r", sms.Recipient)
	if _, err := h.port.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send phone number: %w", err)
	}
	time.Sleep(h.pause)

	// Send message, followed by Ctrl+Z
	if _, err := h.port.Write([]byte(sms.Message + string(rune(26)))); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	// Read modem response
	response := make([]byte, 1024)
	n, _ := h.port.Read(response)
	if !strings.Contains(string(response[:n]), "OK") {
		return fmt.Errorf("failed to send SMS, modem response: %s", string(response[:n]))
	}

	return nil
}
