package service

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cinema-scheduler-cli/model"
)

// PageSize is the fixed number of records shown per list page.
const PageSize = 10

// ExportFileName is the CSV artifact produced by the export action.
const ExportFileName = "cinemalist.csv"

var csvHeader = []string{"Schedule ID", "Movie Title", "Theater", "Show Date", "Show Time", "Subtitles", "IMAX", "Notes"}

// SortKey identifies a sortable list column.
type SortKey string

const (
	SortNone       SortKey = ""
	SortShowID     SortKey = "showId"
	SortMovieTitle SortKey = "movieTitle"
	SortTheater    SortKey = "theater"
	SortShowDate   SortKey = "showDate"
)

// SortState tracks the selected column and direction. Selecting a new column
// sorts ascending; re-selecting the current one flips the direction.
type SortState struct {
	Key  SortKey
	Desc bool
}

func (s *SortState) Toggle(key SortKey) {
	if s.Key == key {
		s.Desc = !s.Desc
		return
	}
	s.Key = key
	s.Desc = false
}

// SortShows returns a sorted copy of shows. showId compares numerically,
// showDate by calendar value, the rest case-insensitively; equal keys keep
// their prior relative order.
func SortShows(shows []model.ShowRecord, state SortState) []model.ShowRecord {
	sorted := append([]model.ShowRecord{}, shows...)
	if state.Key == SortNone {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if state.Desc {
			return lessByKey(sorted[j], sorted[i], state.Key)
		}
		return lessByKey(sorted[i], sorted[j], state.Key)
	})
	return sorted
}

func lessByKey(a, b model.ShowRecord, key SortKey) bool {
	switch key {
	case SortShowID:
		return a.ShowID < b.ShowID
	case SortShowDate:
		ad, aerr := ParseShowDate(a.ShowDate)
		bd, berr := ParseShowDate(b.ShowDate)
		if aerr != nil || berr != nil {
			return strings.ToLower(a.ShowDate) < strings.ToLower(b.ShowDate)
		}
		return ad.Before(bd)
	case SortMovieTitle:
		return strings.ToLower(a.MovieTitle) < strings.ToLower(b.MovieTitle)
	case SortTheater:
		return strings.ToLower(a.Theater) < strings.ToLower(b.Theater)
	default:
		return false
	}
}

// PageCount reports how many pages a collection of total records spans. An
// empty collection still has one page.
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// PageSlice returns the records on the given 1-based page, clamped to range.
func PageSlice(shows []model.ShowRecord, page int) []model.ShowRecord {
	if page < 1 {
		page = 1
	}
	if page > PageCount(len(shows)) {
		page = PageCount(len(shows))
	}
	start := (page - 1) * PageSize
	if start >= len(shows) {
		return nil
	}
	end := start + PageSize
	if end > len(shows) {
		end = len(shows)
	}
	return shows[start:end]
}

// VisiblePage produces the records rendered on a list page: the page slice is
// taken from the unsorted collection first, then sorted. Ordering is therefore
// local to the page; records never move between pages when a sort is applied.
func VisiblePage(shows []model.ShowRecord, page int, state SortState) []model.ShowRecord {
	return SortShows(PageSlice(shows, page), state)
}

// WriteCSV serializes the full collection (unsorted, unpaginated) with the
// fixed header row. Booleans render as Y/N, missing optionals as empty.
func WriteCSV(w io.Writer, shows []model.ShowRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, show := range shows {
		row := []string{
			strconv.Itoa(show.ShowID),
			show.MovieTitle,
			show.Theater,
			show.ShowDate,
			show.ShowTime,
			yesNo(show.Subtitles),
			yesNo(show.Imax),
			show.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the collection to ExportFileName under dir and returns the
// full path. An empty dir exports to the working directory.
func ExportCSV(dir string, shows []model.ShowRecord) (string, error) {
	path := filepath.Join(dir, ExportFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, shows); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
