// Package capture turns preacher speech into outgoing session events
// using one of two mutually exclusive strategies: a continuous speech
// recognizer when one is installed, or raw audio chunking as fallback.
package capture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/Mide6x/wilberforceDemoFE/internal/ports"
)

// Recognizer runs an external continuous speech recognition engine that
// prints one JSON result per line. Interim results are read and dropped;
// only finalized segments are emitted, concatenated per result.
type Recognizer struct {
	command string
}

func NewRecognizer(command string) *Recognizer {
	return &Recognizer{command: command}
}

func (r *Recognizer) Name() string { return "speech-recognition" }

// Available probes for the engine binary. An empty command disables the
// strategy outright.
func (r *Recognizer) Available() bool {
	if strings.TrimSpace(r.command) == "" {
		return false
	}
	_, err := exec.LookPath(r.command)
	return err == nil
}

func (r *Recognizer) Start(ctx context.Context, cfg ports.CaptureConfig) (ports.CaptureSession, error) {
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	cmd := exec.CommandContext(ctx, r.command, "--language", language, "--continuous", "--interim")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start speech recognition: %w", err)
	}

	session := &recognizerSession{
		results: make(chan ports.CaptureResult, 16),
		process: cmd.Process,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(session.done)
		defer close(session.results)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			text, final, err := parseResultLine(line)
			if err != nil {
				// Engine errors are surfaced but recognition keeps running.
				session.results <- ports.CaptureResult{Err: err}
				continue
			}
			if !final || text == "" {
				continue
			}
			session.results <- ports.CaptureResult{Text: text}
		}

		if err := cmd.Wait(); err != nil {
			if detail := strings.TrimSpace(stderr.String()); detail != "" {
				err = fmt.Errorf("%w: %s", err, detail)
			}
			if ignoreExit(err) != nil {
				session.results <- ports.CaptureResult{Err: fmt.Errorf("speech recognition ended: %w", err)}
			}
		}
	}()

	return session, nil
}

type recognizerSession struct {
	results chan ports.CaptureResult
	process *os.Process
	done    chan struct{}

	stopOnce sync.Once
}

func (s *recognizerSession) Results() <-chan ports.CaptureResult {
	return s.results
}

func (s *recognizerSession) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}
		select {
		case <-s.done:
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			<-s.done
		}
	})
	return nil
}

type recognitionResult struct {
	Final    bool     `json:"final"`
	Segments []string `json:"segments"`
	Text     string   `json:"text"`
	Error    string   `json:"error"`
}

// parseResultLine decodes one engine result. Finalized segments are
// concatenated into a single outgoing text; interim results report
// final=false and are never sent.
func parseResultLine(line []byte) (string, bool, error) {
	var result recognitionResult
	if err := json.Unmarshal(line, &result); err != nil {
		return "", false, fmt.Errorf("unreadable recognition result: %w", err)
	}
	if result.Error != "" {
		return "", false, errors.New("speech recognition error: " + result.Error)
	}

	if len(result.Segments) > 0 {
		var joined strings.Builder
		for _, segment := range result.Segments {
			joined.WriteString(segment)
		}
		return strings.TrimSpace(joined.String()), result.Final, nil
	}
	return strings.TrimSpace(result.Text), result.Final, nil
}

func ignoreExit(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() < 0 {
		// Killed by our own Stop signal.
		return nil
	}
	return err
}
