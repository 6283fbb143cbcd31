package catalog

import (
	"errors"

	"github.com/alexisbeaulieu97/bookconnect/internal/logger"
)

// Observer receives the view after every state-changing operation.
type Observer func(View)

// Option customises a Manager.
type Option func(*Manager)

// WithLogger attaches a logger for diagnostics such as skipped records.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithObserver registers a callback notified after Initialize, ApplyFilter and
// every LoadMore that reveals books.
func WithObserver(obs Observer) Option {
	return func(m *Manager) {
		if obs != nil {
			m.observers = append(m.observers, obs)
		}
	}
}

// Manager owns the catalog state: the immutable source, the books matching the
// active filter and the pagination cursor. It is driven from a single event
// loop and is not safe for concurrent use.
type Manager struct {
	source   []Record
	matches  []Book
	page     int
	pageSize int
	criteria Criteria
	dropped  int
	ready    bool
	last     View

	log       *logger.Logger
	observers []Observer
}

// NewManager returns an uninitialized manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{criteria: AnyCriteria()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// New creates a manager and initializes it with records and pageSize.
func New(records []Record, pageSize int, opts ...Option) (*Manager, error) {
	m := NewManager(opts...)
	if _, err := m.Initialize(records, pageSize); err != nil {
		return nil, err
	}
	return m, nil
}

// Initialize installs a new source and shows its first page. Every valid
// record matches; invalid records are skipped and counted.
func (m *Manager) Initialize(records []Record, pageSize int) (View, error) {
	if pageSize <= 0 {
		err := &ConfigurationError{PageSize: pageSize}
		m.log.Error(err, "catalog initialization refused")
		return m.last, err
	}

	m.source = records
	m.pageSize = pageSize
	m.criteria = AnyCriteria()
	m.matches, m.dropped = m.filter(m.criteria)
	m.page = 1
	m.ready = true

	m.log.Info("catalog initialized",
		"records", len(records),
		"valid", len(m.matches),
		"dropped", m.dropped,
		"page_size", pageSize,
	)

	return m.publish(m.reset()), nil
}

// ApplyFilter replaces the matches with the source records satisfying c and
// rewinds pagination to the first page.
func (m *Manager) ApplyFilter(c Criteria) (View, error) {
	if !m.ready {
		return View{IsEmpty: true}, ErrNotReady
	}

	m.criteria = c.Normalize()
	m.matches, m.dropped = m.filter(m.criteria)
	m.page = 1

	m.log.Info("filter applied",
		"criteria", m.criteria.String(),
		"matches", len(m.matches),
		"dropped", m.dropped,
	)

	return m.publish(m.reset()), nil
}

// LoadMore reveals the next page. It returns false, with the current view
// unchanged, when nothing remains.
func (m *Manager) LoadMore() (View, bool) {
	if !m.ready {
		return View{IsEmpty: true}, false
	}

	start := m.page * m.pageSize
	if start >= len(m.matches) {
		m.log.Debug("load more ignored", "page", m.page, "matches", len(m.matches))
		return m.last, false
	}

	m.page++
	end := m.visibleCount()

	view := View{
		Visible:   m.matches[:end:end],
		Revealed:  m.matches[start:end:end],
		Remaining: m.remaining(),
		IsEmpty:   len(m.matches) == 0,
	}

	m.log.Debug("load more",
		"page", m.page,
		"revealed", end-start,
		"remaining", view.Remaining,
	)

	return m.publish(view), true
}

// View returns the current derived view.
func (m *Manager) View() View {
	if !m.ready {
		return View{IsEmpty: true}
	}
	return m.last
}

// Lookup finds a book by id in the full source, regardless of the active
// filter. Unknown ids yield ErrNotFound.
func (m *Manager) Lookup(id string) (Book, error) {
	for _, rec := range m.source {
		if rec.ID != id || id == "" {
			continue
		}
		book, err := NewBook(rec)
		if err != nil {
			m.log.Warn("lookup hit invalid record", "id", id, "error", err.Error())
			return Book{}, errors.Join(ErrNotFound, err)
		}
		return book, nil
	}
	m.log.Debug("lookup miss", "id", id)
	return Book{}, ErrNotFound
}

// Criteria returns the active filter.
func (m *Manager) Criteria() Criteria {
	return m.criteria
}

// Dropped returns how many records failed validation during the last pass.
func (m *Manager) Dropped() int {
	return m.dropped
}

// Ready reports whether Initialize has succeeded.
func (m *Manager) Ready() bool {
	return m.ready
}

// PageSize returns the configured page length.
func (m *Manager) PageSize() int {
	return m.pageSize
}

func (m *Manager) filter(c Criteria) ([]Book, int) {
	matches := make([]Book, 0, len(m.source))
	dropped := 0
	for i, rec := range m.source {
		book, err := NewBook(rec)
		if err != nil {
			dropped++
			var recordErr *InvalidRecordError
			if errors.As(err, &recordErr) {
				m.log.Warn("record skipped", "index", i, "id", rec.ID, "fields", recordErr.Fields)
			} else {
				m.log.Warn("record skipped", "index", i, "id", rec.ID, "error", err.Error())
			}
			continue
		}
		if book.Matches(c) {
			matches = append(matches, book)
		}
	}
	return matches, dropped
}

func (m *Manager) reset() View {
	end := m.visibleCount()
	visible := m.matches[:end:end]
	return View{
		Visible:   visible,
		Revealed:  visible,
		Remaining: m.remaining(),
		IsEmpty:   len(m.matches) == 0,
		Reset:     true,
	}
}

func (m *Manager) visibleCount() int {
	return min(m.page*m.pageSize, len(m.matches))
}

func (m *Manager) remaining() int {
	return max(len(m.matches)-m.page*m.pageSize, 0)
}

func (m *Manager) publish(v View) View {
	m.last = v
	for _, obs := range m.observers {
		obs(v)
	}
	return v
}
