package joystick

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/openrover/drivectl/drive"
)

// SerialSource reads joystick frames from an ADC bridge attached over a
// serial character device. Frames are newline-terminated "x,y" decimal
// pairs. The reader goroutine keeps only the most recent valid frame;
// Sample never blocks the control loop on a slow or silent line.
type SerialSource struct {
	r io.ReadCloser

	mu   sync.Mutex
	last drive.Sample
	err  error
}

// OpenSerial opens the given device node and starts the frame reader.
func OpenSerial(device string) (*SerialSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open joystick device: %w", err)
	}
	return NewSerialSource(f), nil
}

// NewSerialSource wraps an already-open frame stream. Mostly useful for
// tests feeding a pipe.
func NewSerialSource(r io.ReadCloser) *SerialSource {
	s := &SerialSource{
		r:    r,
		last: drive.Centered(),
	}
	go s.read()
	return s
}

// Sample returns the most recent frame. A garbled or missing frame is not an
// error here: the previous frame is reused and the next good frame
// self-corrects it. Only a dead line (EOF or read failure) surfaces.
func (s *SerialSource) Sample() (drive.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return drive.Centered(), s.err
	}
	return s.last, nil
}

// Close stops the reader.
func (s *SerialSource) Close() error {
	return s.r.Close()
}

func (s *SerialSource) read() {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		sample, err := parseFrame(scanner.Text())
		if err != nil {
			continue
		}
		s.mu.Lock()
		s.last = sample
		s.mu.Unlock()
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.mu.Lock()
	s.err = fmt.Errorf("joystick stream ended: %w", err)
	s.mu.Unlock()
}

func parseFrame(line string) (drive.Sample, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(line), ",")
	if !ok {
		return drive.Sample{}, fmt.Errorf("malformed frame %q", line)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return drive.Sample{}, fmt.Errorf("bad x value: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return drive.Sample{}, fmt.Errorf("bad y value: %w", err)
	}
	if x < drive.AxisMin || x > drive.AxisMax || y < drive.AxisMin || y > drive.AxisMax {
		return drive.Sample{}, fmt.Errorf("frame %q outside axis range", line)
	}
	return drive.Sample{X: x, Y: y}, nil
}
