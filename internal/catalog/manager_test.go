package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/bookconnect/internal/logger"
)

func records(ids ...string) []Record {
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, Record{ID: id, Title: "Book " + id, Author: "author-" + id})
	}
	return out
}

func ids(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func sampleRecords() []Record {
	return []Record{
		{ID: "1", Title: "Dune", Author: "herbert", Genres: []string{"scifi"}},
		{ID: "2", Title: "Dune Messiah", Author: "herbert", Genres: []string{"scifi"}},
		{ID: "3", Title: "Emma", Author: "austen", Genres: []string{"romance", "classic"}},
		{ID: "4", Title: "Persuasion", Author: "austen", Genres: []string{"romance"}},
		{ID: "", Title: "Broken", Author: "nobody"},
		{ID: "6", Title: "Children of Dune", Author: "herbert", Genres: []string{"scifi", "classic"}},
		{ID: "7", Title: "", Author: "herbert"},
	}
}

func TestNewRejectsNonPositivePageSize(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1} {
		m, err := New(records("A"), size)
		require.Error(t, err)
		assert.Nil(t, m)
		assert.True(t, errors.Is(err, ErrConfiguration))

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, size, cfgErr.PageSize)
	}
}

func TestInitializeScenarioThreeBooks(t *testing.T) {
	t.Parallel()

	m, err := New(records("A", "B", "C"), 2)
	require.NoError(t, err)

	view := m.View()
	assert.Equal(t, []string{"A", "B"}, ids(view.Visible))
	assert.Equal(t, 1, view.Remaining)
	assert.False(t, view.IsEmpty)
	assert.True(t, view.Reset)

	view, ok := m.LoadMore()
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, ids(view.Visible))
	assert.Equal(t, []string{"C"}, ids(view.Revealed))
	assert.Equal(t, 0, view.Remaining)
	assert.False(t, view.Reset)

	again, ok := m.LoadMore()
	assert.False(t, ok, "second load more must be a no-op")
	assert.Equal(t, view, again)
	assert.Equal(t, view, m.View())
}

func TestApplyFilterIdentityKeepsAllValidRecords(t *testing.T) {
	t.Parallel()

	src := records("A", "B", "C", "D", "E")
	m, err := New(src, 2)
	require.NoError(t, err)

	view, err := m.ApplyFilter(Criteria{Title: "", Author: Any, Genre: Any})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Total())

	for i := 0; i < 5; i++ {
		m.LoadMore()
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(m.View().Visible))
}

func TestApplyFilterSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "warn", Writer: buf})
	require.NoError(t, err)

	m, err := New(sampleRecords(), 10, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dropped())

	view, err := m.ApplyFilter(AnyCriteria())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "6"}, ids(view.Visible))
	assert.Equal(t, 2, m.Dropped())
	assert.Contains(t, buf.String(), "record skipped")
}

func TestApplyFilterTitleSubstring(t *testing.T) {
	t.Parallel()

	src := sampleRecords()
	m, err := New(src, 100)
	require.NoError(t, err)

	view, err := m.ApplyFilter(Criteria{Title: "DUNE"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "6"}, ids(view.Visible))
	for _, b := range view.Visible {
		assert.Contains(t, strings.ToLower(b.Title), "dune")
	}

	included := map[string]bool{}
	for _, b := range view.Visible {
		included[b.ID] = true
	}
	for _, rec := range src {
		book, err := NewBook(rec)
		if err != nil || included[book.ID] {
			continue
		}
		assert.NotContains(t, strings.ToLower(book.Title), "dune", "excluded book %s", book.ID)
	}
}

func TestApplyFilterAuthorAndGenre(t *testing.T) {
	t.Parallel()

	m, err := New(sampleRecords(), 100)
	require.NoError(t, err)

	view, err := m.ApplyFilter(Criteria{Author: "austen", Genre: "classic"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(view.Visible))

	view, err = m.ApplyFilter(Criteria{Genre: "scifi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "6"}, ids(view.Visible))
}

func TestApplyFilterUnknownAuthorIsEmpty(t *testing.T) {
	t.Parallel()

	m, err := New(sampleRecords(), 2)
	require.NoError(t, err)

	view, err := m.ApplyFilter(Criteria{Author: "X"})
	require.NoError(t, err)
	assert.Empty(t, view.Visible)
	assert.True(t, view.IsEmpty)
	assert.Equal(t, 0, view.Remaining)

	_, ok := m.LoadMore()
	assert.False(t, ok)
}

func TestApplyFilterIsIdempotentAndResetsPage(t *testing.T) {
	t.Parallel()

	m, err := New(records("A", "B", "C", "D", "E"), 2)
	require.NoError(t, err)

	criteria := Criteria{Title: "book"}
	first, err := m.ApplyFilter(criteria)
	require.NoError(t, err)

	_, ok := m.LoadMore()
	require.True(t, ok)
	require.Len(t, m.View().Visible, 4)

	second, err := m.ApplyFilter(criteria)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, second.Visible, 2)
	assert.True(t, second.Reset)
}

func TestLoadMoreMonotonicity(t *testing.T) {
	t.Parallel()

	for _, total := range []int{0, 1, 5, 6, 7, 20} {
		for _, pageSize := range []int{1, 3, 6} {
			t.Run(fmt.Sprintf("total=%d/page=%d", total, pageSize), func(t *testing.T) {
				t.Parallel()

				src := make([]string, total)
				for i := range src {
					src[i] = fmt.Sprintf("b%02d", i)
				}
				m, err := New(records(src...), pageSize)
				require.NoError(t, err)

				prev := len(m.View().Visible)
				for n := 1; n <= total+2; n++ {
					before := m.View()
					view, ok := m.LoadMore()

					assert.Equal(t, before.Remaining == 0, !ok, "no-op exactly when nothing remains")
					assert.Equal(t, min((1+n)*pageSize, total), len(view.Visible))
					assert.GreaterOrEqual(t, len(view.Visible), prev)
					assert.Equal(t, total-len(view.Visible), view.Remaining)
					assert.Equal(t, view.Remaining == 0, len(view.Visible) == total)
					assert.Equal(t, total == 0, view.IsEmpty)
					prev = len(view.Visible)
				}
			})
		}
	}
}

func TestLoadMoreRevealsOnlyNewSlice(t *testing.T) {
	t.Parallel()

	m, err := New(records("A", "B", "C", "D", "E"), 2)
	require.NoError(t, err)

	view, ok := m.LoadMore()
	require.True(t, ok)
	assert.Equal(t, []string{"C", "D"}, ids(view.Revealed))

	view, ok = m.LoadMore()
	require.True(t, ok)
	assert.Equal(t, []string{"E"}, ids(view.Revealed))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(view.Visible))
}

func TestIsEmptyIndependentOfSourceSize(t *testing.T) {
	t.Parallel()

	m, err := New(nil, 3)
	require.NoError(t, err)
	assert.True(t, m.View().IsEmpty)

	m, err = New(records("A", "B"), 3)
	require.NoError(t, err)
	assert.False(t, m.View().IsEmpty)

	view, err := m.ApplyFilter(Criteria{Title: "zzz"})
	require.NoError(t, err)
	assert.True(t, view.IsEmpty)
}

func TestLookupSearchesFullSource(t *testing.T) {
	t.Parallel()

	m, err := New(sampleRecords(), 1)
	require.NoError(t, err)

	_, err = m.ApplyFilter(Criteria{Author: "austen"})
	require.NoError(t, err)

	book, err := m.Lookup("6")
	require.NoError(t, err, "lookup ignores the active filter")
	assert.Equal(t, "Children of Dune", book.Title)
}

func TestLookupUnknownIDLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	m, err := New(records("A", "B", "C"), 2)
	require.NoError(t, err)
	before := m.View()

	_, err = m.Lookup("Z")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, before, m.View())

	_, err = m.Lookup("")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLookupInvalidRecordIsNotFound(t *testing.T) {
	t.Parallel()

	m, err := New([]Record{{ID: "bad", Title: "No author"}}, 2)
	require.NoError(t, err)

	_, err = m.Lookup("bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestUninitializedManager(t *testing.T) {
	t.Parallel()

	m := NewManager()
	assert.False(t, m.Ready())

	_, err := m.ApplyFilter(AnyCriteria())
	assert.True(t, errors.Is(err, ErrNotReady))

	view, ok := m.LoadMore()
	assert.False(t, ok)
	assert.True(t, view.IsEmpty)

	_, err = m.Lookup("A")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = m.Initialize(records("A"), 0)
	require.Error(t, err)
	assert.False(t, m.Ready(), "failed initialization keeps the manager uninitialized")

	view, err = m.Initialize(records("A"), 1)
	require.NoError(t, err)
	assert.True(t, m.Ready())
	assert.Equal(t, []string{"A"}, ids(view.Visible))
}

func TestObserverReceivesEveryChange(t *testing.T) {
	t.Parallel()

	var seen []View
	m, err := New(records("A", "B", "C"), 2, WithObserver(func(v View) {
		seen = append(seen, v)
	}))
	require.NoError(t, err)
	require.Len(t, seen, 1)

	m.LoadMore()
	m.LoadMore()
	_, err = m.ApplyFilter(Criteria{Title: "book a"})
	require.NoError(t, err)

	require.Len(t, seen, 3, "no-op load more must not notify")
	assert.True(t, seen[0].Reset)
	assert.False(t, seen[1].Reset)
	assert.Equal(t, []string{"A"}, ids(seen[2].Visible))
}

func TestReinitializeReplacesSourceAndCriteria(t *testing.T) {
	t.Parallel()

	m, err := New(records("A", "B"), 1)
	require.NoError(t, err)
	_, err = m.ApplyFilter(Criteria{Title: "book b"})
	require.NoError(t, err)

	view, err := m.Initialize(records("C", "D", "E"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D"}, ids(view.Visible))
	assert.Equal(t, 1, view.Remaining)
	assert.True(t, m.Criteria().IsIdentity())
}
