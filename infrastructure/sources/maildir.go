package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vigil-agent/vigil/domain/event"
	"github.com/vigil-agent/vigil/infrastructure/logging"
)

// Maildir watches a directory for dropped message files and surfaces
// them as email events. The watcher accumulates arrivals in the
// background; Poll drains the accumulated batch.
type Maildir struct {
	mu      sync.Mutex
	name    string
	dir     string
	watcher *fsnotify.Watcher
	pending []*event.Email
	done    chan struct{}
	closed  bool
}

// NewMaildir starts watching dir for new message files. Files already
// present are picked up on the first poll.
func NewMaildir(dir string) (*Maildir, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	m := &Maildir{
		name:    "maildir",
		dir:     dir,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	m.scanExisting()
	go m.run()
	return m, nil
}

// Name returns the source name.
func (m *Maildir) Name() string { return m.name }

func (m *Maildir) scanExisting() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			m.ingest(filepath.Join(m.dir, e.Name()))
		}
	}
}

func (m *Maildir) run() {
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				m.ingest(ev.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn().
				Add(logging.Component("maildir")).
				Add(logging.ErrorField(err)).
				Msg("watcher error")
		}
	}
}

// ingest parses a message file and queues it. Unreadable files are
// skipped.
func (m *Maildir) ingest(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	mail, err := parseMessage(path)
	if err != nil {
		logging.Warn().
			Add(logging.Component("maildir")).
			Add(logging.Str("path", path)).
			Add(logging.ErrorField(err)).
			Msg("skipping unreadable message")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pending {
		if p.ThreadID == mail.ThreadID {
			return
		}
	}
	m.pending = append(m.pending, mail)
}

// parseMessage reads a simple header/body message file. Recognized
// headers are Subject, From, and Urgent; the first body line becomes
// the snippet.
func parseMessage(path string) (*event.Email, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mail := &event.Email{
		ThreadID:   filepath.Base(path),
		ReceivedAt: time.Now(),
	}

	scanner := bufio.NewScanner(f)
	inBody := false
	for scanner.Scan() {
		line := scanner.Text()
		if !inBody {
			if line == "" {
				inBody = true
				continue
			}
			key, value, found := strings.Cut(line, ":")
			if !found {
				inBody = true
			} else {
				switch strings.ToLower(strings.TrimSpace(key)) {
				case "subject":
					mail.Subject = strings.TrimSpace(value)
					continue
				case "from":
					mail.Sender = strings.TrimSpace(value)
					continue
				case "urgent":
					mail.Urgent = strings.EqualFold(strings.TrimSpace(value), "true")
					continue
				default:
					inBody = true
				}
			}
		}
		if inBody && mail.Snippet == "" && strings.TrimSpace(line) != "" {
			mail.Snippet = strings.TrimSpace(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mail, nil
}

// Poll drains the accumulated messages in arrival order.
func (m *Maildir) Poll(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]event.Event, len(m.pending))
	for i, p := range m.pending {
		out[i] = p
	}
	m.pending = nil
	return out, nil
}

// Close stops the watcher.
func (m *Maildir) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return m.watcher.Close()
}

var _ event.Source = (*Maildir)(nil)
