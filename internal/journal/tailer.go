package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"starlog/internal/model"
)

// DefaultPollInterval keeps end-to-end latency low without busy-spinning.
const DefaultPollInterval = 250 * time.Millisecond

// Sink receives each successfully decoded journal record, in order.
type Sink func(model.RawRecord)

// Tailer follows the active journal file in a directory of rotating files.
// It delivers every complete line exactly once and in order: when a newer
// file appears, the old file is drained of its remaining complete lines
// before the cursor switches to the new file at offset 0.
type Tailer struct {
	dir      string
	interval time.Duration
	log      *zap.Logger
	ckpt     *Checkpoint

	mu   sync.Mutex
	sink Sink

	// Read cursor. Only the tailing goroutine touches these.
	active journalFile
	file   *os.File
	offset int64
	carry  []byte

	// Log-once gates: a persistent failure logs on onset, not per poll.
	// Each is cleared only by its own operation succeeding.
	scanFailing bool
	openFailing bool
	readFailing bool

	decodeErrs  int64
	onLine      func()
	onDecodeErr func()

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

// TailerOption configures a Tailer.
type TailerOption func(*Tailer)

// WithPollInterval overrides the poll cadence.
func WithPollInterval(d time.Duration) TailerOption {
	return func(t *Tailer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTailerLogger sets the tailer's logger.
func WithTailerLogger(log *zap.Logger) TailerOption {
	return func(t *Tailer) { t.log = log }
}

// WithCheckpoint enables offset persistence so a restart resumes where the
// previous run left off instead of re-ingesting the whole active file.
func WithCheckpoint(ckpt *Checkpoint) TailerOption {
	return func(t *Tailer) { t.ckpt = ckpt }
}

// WithLineObserver registers counters invoked per delivered line and per
// decode failure. Used for metrics.
func WithLineObserver(onLine, onDecodeErr func()) TailerOption {
	return func(t *Tailer) {
		t.onLine = onLine
		t.onDecodeErr = onDecodeErr
	}
}

// NewTailer creates a Tailer for the given journal directory.
func NewTailer(dir string, opts ...TailerOption) *Tailer {
	t := &Tailer{
		dir:      dir,
		interval: DefaultPollInterval,
		log:      zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetSink registers the callback that receives each decoded record.
// Must be called before Start.
func (t *Tailer) SetSink(sink Sink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = sink
}

// Start begins polling on its own goroutine. fsnotify write events on the
// journal directory trigger an immediate poll between ticks.
func (t *Tailer) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return nil
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.started = true
	t.mu.Unlock()

	// The watcher is best-effort: if the directory cannot be watched yet
	// (or at all), the poll ticker alone drives the tailer.
	var events <-chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if werr := watcher.Add(t.dir); werr != nil {
			t.log.Warn("cannot watch journal directory, falling back to polling only",
				zap.String("dir", t.dir), zap.Error(werr))
		}
		events = watcher.Events
	} else {
		t.log.Warn("fsnotify unavailable, falling back to polling only", zap.Error(err))
	}

	go t.run(ctx, watcher, events)
	return nil
}

// Stop cancels polling and waits for in-flight work to finish. Idempotent;
// a no-op if the tailer was never started.
func (t *Tailer) Stop() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return
	}
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
	})
}

// DecodeErrors returns how many lines failed to decode so far.
func (t *Tailer) DecodeErrors() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.decodeErrs
}

func (t *Tailer) run(ctx context.Context, watcher *fsnotify.Watcher, events <-chan fsnotify.Event) {
	defer close(t.done)
	if watcher != nil {
		defer watcher.Close()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	// Initial poll so pre-existing content is picked up immediately.
	t.poll()

	for {
		select {
		case <-ctx.Done():
			// Final drain so a line fully written before Stop is not dropped.
			t.poll()
			t.closeActive()
			t.saveCheckpoint()
			return
		case <-ticker.C:
			t.poll()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				t.poll()
			}
		}
	}
}

// poll runs one cycle: read new bytes from the active file, then handle
// rotation if a newer journal has appeared. The old file is fully drained
// before the switch, so delivery stays in order across rotation.
func (t *Tailer) poll() {
	newest, found, err := discoverActive(t.dir)
	if err != nil {
		if !t.scanFailing {
			t.log.Error("journal directory scan failed, will retry", zap.Error(err))
			t.scanFailing = true
		}
		return
	}
	if t.scanFailing {
		t.log.Info("journal directory scan recovered")
		t.scanFailing = false
	}
	if !found {
		return
	}

	if t.file == nil {
		t.openActive(newest)
	}
	if t.file == nil {
		return
	}

	t.readNewLines()

	if newest.path != t.active.path && newest.newer(t.active) {
		// Drain is already done above; switch to the new file at offset 0.
		t.log.Info("journal rotated",
			zap.String("from", t.active.path),
			zap.String("to", newest.path))
		t.closeActive()
		t.carry = nil
		if t.ckpt != nil {
			t.ckpt.Forget(t.active.path)
		}
		t.openActive(newest)
		if t.file != nil {
			t.readNewLines()
		}
	}
}

// openActive opens the given journal file and positions the cursor. A saved
// checkpoint is honored only if it refers to this exact file.
func (t *Tailer) openActive(jf journalFile) {
	f, err := os.Open(jf.path)
	if err != nil {
		if !t.openFailing {
			t.log.Error("cannot open journal file, will retry",
				zap.String("path", jf.path), zap.Error(err))
			t.openFailing = true
		}
		return
	}
	t.openFailing = false

	var offset int64
	if t.ckpt != nil {
		if saved, ok := t.ckpt.Get(jf.path); ok {
			offset = saved
		}
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		offset = 0
	}

	t.active = jf
	t.file = f
	t.offset = offset
	t.log.Info("tailing journal file", zap.String("path", jf.path), zap.Int64("offset", offset))
}

// readNewLines reads from the cursor to EOF and forwards every complete line.
// A trailing partial line is held in the carry buffer until its newline
// arrives on a later poll.
func (t *Tailer) readNewLines() {
	data, err := io.ReadAll(t.file)
	if err != nil {
		if !t.readFailing {
			t.log.Error("journal read failed", zap.String("path", t.active.path), zap.Error(err))
			t.readFailing = true
		}
		return
	}
	t.readFailing = false
	if len(data) == 0 {
		return
	}
	t.offset += int64(len(data))

	buf := append(t.carry, data...)
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		line := buf[:idx]
		buf = buf[idx+1:]
		t.deliver(line)
	}
	t.carry = append([]byte(nil), buf...)

	if t.ckpt != nil {
		// The carry buffer is not persisted, so the saved offset excludes it;
		// a restart re-reads a torn line from its start.
		t.ckpt.Set(t.active.path, t.offset-int64(len(t.carry)))
	}
}

// deliver decodes one complete line and forwards it to the sink. Lines that
// fail to decode are counted and skipped; they never stop the stream.
func (t *Tailer) deliver(line []byte) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}

	var record model.RawRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		t.mu.Lock()
		t.decodeErrs++
		t.mu.Unlock()
		if t.onDecodeErr != nil {
			t.onDecodeErr()
		}
		t.log.Warn("skipping undecodable journal line",
			zap.String("path", t.active.path), zap.Error(err))
		return
	}

	t.mu.Lock()
	sink := t.sink
	t.mu.Unlock()
	if sink != nil {
		sink(record)
	}
	if t.onLine != nil {
		t.onLine()
	}
}

func (t *Tailer) closeActive() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

func (t *Tailer) saveCheckpoint() {
	if t.ckpt == nil {
		return
	}
	if err := t.ckpt.Save(); err != nil {
		t.log.Warn("checkpoint save failed", zap.Error(err))
	}
}
