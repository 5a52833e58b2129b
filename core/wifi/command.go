package wifi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CommandController runs shell commands to control the hotspot.
type CommandController struct {
	start   string
	stop    string
	shell   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCommandController checks that both commands are configured.
func NewCommandController(cfg Config, logger *zap.Logger) (*CommandController, error) {
	if strings.TrimSpace(cfg.StartCommand) == "" || strings.TrimSpace(cfg.StopCommand) == "" {
		return nil, errors.New("command driver requires start_command and stop_command")
	}
	shell := cfg.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	timeout := cfg.CommandTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandController{
		start:   cfg.StartCommand,
		stop:    cfg.StopCommand,
		shell:   shell,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Start implements Controller.
func (c *CommandController) Start(ctx context.Context) error {
	return c.run(ctx, "start", c.start)
}

// Stop implements Controller.
func (c *CommandController) Stop(ctx context.Context) error {
	return c.run(ctx, "stop", c.stop)
}

func (c *CommandController) run(ctx context.Context, action, command string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.shell, "-c", command)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	c.logger.Debug("Hotspot command finished",
		zap.String("action", action),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("%s command timed out after %s: %w", action, c.timeout, ctx.Err())
	}
	msg := strings.TrimSpace(out.String())
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg != "" {
		return fmt.Errorf("%s command failed: %w: %s", action, err, msg)
	}
	return fmt.Errorf("%s command failed: %w", action, err)
}
