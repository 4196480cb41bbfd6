package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

const (
	jupiterScript = "limitorder-jupitor.js" // the trading script keeps its historical filename
	raydiumScript = "limitorder-raydium.js"

	configFileName = "bot-config.json"

	// gracePeriod is how long a stopped bot gets to exit on SIGTERM before
	// it is killed.
	gracePeriod = 2 * time.Second

	liquidationTimeout = 60 * time.Second
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Status describes the bot process at a point in time.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	DexType   string    `json:"dex_type,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Runner manages the Node.js trading bot subprocess. The bot is launched
// under nodemon watching bot-config.json, so config saves while running
// restart the trading loop without touching the process.
type Runner struct {
	dir    string
	buffer *LogBuffer
	logger Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	running   bool
	dexType   string
	startedAt time.Time
	waitDone  chan struct{}
}

// NewRunner creates a runner for the bot scripts under dir.
func NewRunner(dir string, buffer *LogBuffer, logger Logger) *Runner {
	return &Runner{dir: dir, buffer: buffer, logger: logger}
}

func scriptFor(dexType string) string {
	if dexType == DexRaydium {
		return raydiumScript
	}
	return jupiterScript
}

// Start launches the bot for the given DEX. Starting while a bot is already
// running is rejected; callers that want a restart use Restart.
func (r *Runner) Start(dexType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("bot is already running")
	}

	script := scriptFor(dexType)
	cmd := exec.Command("nodemon", "--watch", configFileName, "--exec", "node", script)
	cmd.Dir = r.dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start bot process: %w", err)
	}

	r.cmd = cmd
	r.running = true
	r.dexType = dexType
	r.startedAt = time.Now()
	r.waitDone = make(chan struct{})

	r.buffer.Append(fmt.Sprintf("Starting %s trading bot with nodemon...", dexType), "info")
	r.logger.Info("bot started", "dex", dexType, "pid", cmd.Process.Pid, "script", script)

	go r.drain(stdout, "info")
	go r.drain(stderr, "error")
	go r.wait(cmd, r.waitDone)

	return nil
}

// Stop terminates the running bot: SIGTERM first, SIGKILL if it has not
// exited within the grace period.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return fmt.Errorf("bot is not running")
	}
	cmd := r.cmd
	done := r.waitDone
	r.mu.Unlock()

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// The process may have exited on its own already.
		r.logger.Error("failed to signal bot process", "error", err)
	}

	select {
	case <-done:
	case <-time.After(gracePeriod):
		r.buffer.Append("Bot did not exit in time, killing process", "warning")
		_ = cmd.Process.Kill()
		<-done
	}

	r.buffer.Append("Bot stopped", "info")
	return nil
}

// Restart stops the bot if it is running and starts it again. Used when the
// config is saved mid-session with a possibly different DEX.
func (r *Runner) Restart(dexType string) error {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()

	if running {
		if err := r.Stop(); err != nil {
			return err
		}
	}
	return r.Start(dexType)
}

// State reports whether the bot is running and under which DEX script.
func (r *Runner) State() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := Status{Running: r.running}
	if r.running {
		status.PID = r.cmd.Process.Pid
		status.DexType = r.dexType
		status.StartedAt = r.startedAt
	}
	return status
}

// ClosePosition sells the whole position immediately by running the
// liquidation script for the token's DEX. It is independent of the trading
// loop and works whether or not the bot is running.
func (r *Runner) ClosePosition(ctx context.Context, dexType, tokenAddress string) (string, error) {
	if tokenAddress == "" {
		return "", fmt.Errorf("no token address configured")
	}

	r.buffer.Append(fmt.Sprintf("Closing position for %.8s... via %s", tokenAddress, dexType), "warning")

	runCtx, cancel := context.WithTimeout(ctx, liquidationTimeout)
	defer cancel()

	script := fmt.Sprintf("liquidate-%s.js", dexType)
	cmd := exec.CommandContext(runCtx, "node", script, tokenAddress)
	cmd.Dir = r.dir

	output, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		r.buffer.Append("Liquidation timed out", "error")
		return "", fmt.Errorf("liquidation timed out after %s", liquidationTimeout)
	}
	if err != nil {
		r.buffer.Append(fmt.Sprintf("Liquidation failed: %s", output), "error")
		return string(output), fmt.Errorf("liquidation script failed: %w", err)
	}

	r.buffer.Append("Position closed successfully", "success")
	return string(output), nil
}

func (r *Runner) drain(pipe io.Reader, level string) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 64*1024), 256*1024)
	for scanner.Scan() {
		r.buffer.Append(scanner.Text(), level)
	}
}

func (r *Runner) wait(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	r.mu.Lock()
	if r.cmd == cmd {
		r.running = false
	}
	r.mu.Unlock()

	if err != nil {
		r.buffer.Append(fmt.Sprintf("Bot process exited: %v", err), "error")
	} else {
		r.buffer.Append("Bot process exited", "info")
	}
	close(done)
}
