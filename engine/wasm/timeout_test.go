package wasm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExecErrorLabelsEngineDeadlineOnly(t *testing.T) {
	e := &Engine{cfg: engineConfig{timeout: 50 * time.Millisecond}}

	engineCtx, cancelEngine := context.WithTimeoutCause(context.Background(), 0, errExecTimeout)
	defer cancelEngine()
	<-engineCtx.Done()

	err := e.execError(engineCtx, engineCtx.Err(), "")
	if !strings.Contains(err.Error(), "timeout after 50ms") {
		t.Errorf("engine deadline should report a timeout, got %v", err)
	}

	callerCtx, cancelCaller := context.WithTimeout(context.Background(), 0)
	defer cancelCaller()
	<-callerCtx.Done()

	err = e.execError(callerCtx, callerCtx.Err(), "")
	if strings.Contains(err.Error(), "timeout after") {
		t.Errorf("caller deadline must not be labeled an engine timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("caller deadline should surface unchanged, got %v", err)
	}
}

func TestExecErrorIncludesStderr(t *testing.T) {
	e := &Engine{cfg: engineConfig{timeout: time.Second}}

	err := e.execError(context.Background(), errors.New("exit 1"), "boom\n")
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}
