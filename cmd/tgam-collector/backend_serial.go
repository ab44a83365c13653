package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/serial"
	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/thinkgear"
)

const (
	serialReadBufSize = 1024
	rxBackoffMin      = 20 * time.Millisecond
	rxBackoffMax      = 500 * time.Millisecond
)

// sleepFn allows tests to intercept backoff sleeps.
var sleepFn = time.Sleep

// openSerialPort is a hook for tests.
var openSerialPort = serial.Open

// runSerialRX opens the serial device and drives the frame decoder from it
// until ctx is cancelled or the device reports a fatal error. Read errors are
// classified the same way the donor does: *os.PathError is fatal (device
// removed), io.EOF/io.ErrUnexpectedEOF are transient and ignored, anything
// else backs off exponentially before retrying.
func runSerialRX(ctx context.Context, cfg *Config, dec *thinkgear.Decoder, l *slog.Logger, wg *sync.WaitGroup) (func(), error) {
	sp, err := openSerialPort(cfg.SerialDev, cfg.BaudRate, cfg.SerialReadTimeout)
	if err != nil {
		return func() {}, err
	}
	l.Info("serial_open", "device", cfg.SerialDev, "baud", cfg.BaudRate)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer l.Info("serial_rx_end")
		buf := make([]byte, serialReadBufSize)
		backoff := rxBackoffMin
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			n, err := sp.Read(buf)
			if n > 0 {
				dec.Feed(buf[:n])
				backoff = rxBackoffMin
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				var perr *os.PathError
				if errors.As(err, &perr) {
					return
				}
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					continue
				}
				metrics.IncError(metrics.ErrSerialRead)
				l.Warn("serial_read_error", "error", err, "backoff", backoff)
				sleepFn(backoff)
				backoff *= 2
				if backoff > rxBackoffMax {
					backoff = rxBackoffMax
				}
			}
		}
	}()
	return func() { _ = sp.Close() }, nil
}
