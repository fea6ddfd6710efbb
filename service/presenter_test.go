package service_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-scheduler-cli/model"
	"cinema-scheduler-cli/service"
)

func showsWithIDs(ids ...int) []model.ShowRecord {
	shows := make([]model.ShowRecord, 0, len(ids))
	for _, id := range ids {
		shows = append(shows, model.ShowRecord{ShowID: id})
	}
	return shows
}

func idsOf(shows []model.ShowRecord) []int {
	ids := make([]int, 0, len(shows))
	for _, show := range shows {
		ids = append(ids, show.ShowID)
	}
	return ids
}

func TestSortState_Toggle(t *testing.T) {
	var s service.SortState

	s.Toggle(service.SortShowID)
	assert.Equal(t, service.SortShowID, s.Key)
	assert.False(t, s.Desc)

	s.Toggle(service.SortShowID)
	assert.True(t, s.Desc)

	// a different column starts ascending again
	s.Toggle(service.SortTheater)
	assert.Equal(t, service.SortTheater, s.Key)
	assert.False(t, s.Desc)
}

func TestSortShows_ShowIDNumeric(t *testing.T) {
	shows := showsWithIDs(3, 1, 2)

	asc := service.SortShows(shows, service.SortState{Key: service.SortShowID})
	assert.Equal(t, []int{1, 2, 3}, idsOf(asc))

	desc := service.SortShows(shows, service.SortState{Key: service.SortShowID, Desc: true})
	assert.Equal(t, []int{3, 2, 1}, idsOf(desc))

	// input order untouched
	assert.Equal(t, []int{3, 1, 2}, idsOf(shows))
}

func TestSortShows_ShowDateByCalendarValue(t *testing.T) {
	shows := []model.ShowRecord{
		{ShowID: 1, ShowDate: "05/01/2025"},
		{ShowID: 2, ShowDate: "20/12/2024"},
	}

	// lexically "05/..." sorts first, but December 2024 precedes January 2025
	sorted := service.SortShows(shows, service.SortState{Key: service.SortShowDate})
	assert.Equal(t, []int{2, 1}, idsOf(sorted))
}

func TestSortShows_TitleCaseInsensitive(t *testing.T) {
	shows := []model.ShowRecord{
		{ShowID: 1, MovieTitle: "avatar 3"},
		{ShowID: 2, MovieTitle: "Avengers 5"},
		{ShowID: 3, MovieTitle: "AVATAR 3"},
	}

	sorted := service.SortShows(shows, service.SortState{Key: service.SortMovieTitle})
	assert.Equal(t, []int{1, 3, 2}, idsOf(sorted))
}

func TestSortShows_StableForEqualKeys(t *testing.T) {
	shows := []model.ShowRecord{
		{ShowID: 9, MovieTitle: "Dune"},
		{ShowID: 4, MovieTitle: "Dune"},
		{ShowID: 7, MovieTitle: "Dune"},
	}

	sorted := service.SortShows(shows, service.SortState{Key: service.SortMovieTitle})
	assert.Equal(t, []int{9, 4, 7}, idsOf(sorted))
}

func TestSortShows_NoKeyIsIdentity(t *testing.T) {
	shows := showsWithIDs(3, 1, 2)
	assert.Equal(t, []int{3, 1, 2}, idsOf(service.SortShows(shows, service.SortState{})))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, service.PageCount(0))
	assert.Equal(t, 1, service.PageCount(10))
	assert.Equal(t, 2, service.PageCount(11))
	assert.Equal(t, 3, service.PageCount(25))
}

func TestPageSlice(t *testing.T) {
	shows := showsWithIDs(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	assert.Len(t, service.PageSlice(shows, 1), 10)
	assert.Equal(t, []int{11, 12}, idsOf(service.PageSlice(shows, 2)))

	// out-of-range pages clamp
	assert.Len(t, service.PageSlice(shows, 0), 10)
	assert.Equal(t, []int{11, 12}, idsOf(service.PageSlice(shows, 99)))
}

func TestVisiblePage_SortIsPageLocal(t *testing.T) {
	// stored in descending id order: page 1 holds ids 12..3, page 2 holds 2..1
	shows := showsWithIDs(12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1)
	state := service.SortState{Key: service.SortShowID}

	page1 := idsOf(service.VisiblePage(shows, 1, state))
	page2 := idsOf(service.VisiblePage(shows, 2, state))

	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, page1)
	assert.Equal(t, []int{1, 2}, page2)

	// the quirk: page 2 carries ids smaller than everything on page 1
	assert.Less(t, page2[len(page2)-1], page1[0])
}

func exportRecord() model.ShowRecord {
	return model.ShowRecord{
		ShowID:     1,
		MovieTitle: "Dune",
		Theater:    "Theater 1",
		ShowDate:   "01/07/2024",
		ShowTime:   "18:00",
		Subtitles:  true,
		Imax:       false,
		Notes:      "",
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(&buf, []model.ShowRecord{exportRecord()}))

	want := "Schedule ID,Movie Title,Theater,Show Date,Show Time,Subtitles,IMAX,Notes\n" +
		"1,Dune,Theater 1,01/07/2024,18:00,Y,N,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(&buf, nil))

	assert.Equal(t, "Schedule ID,Movie Title,Theater,Show Date,Show Time,Subtitles,IMAX,Notes\n", buf.String())
}

func TestExportCSV_WritesNamedFile(t *testing.T) {
	dir := t.TempDir()

	path, err := service.ExportCSV(dir, []model.ShowRecord{exportRecord()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cinemalist.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1,Dune,Theater 1,01/07/2024,18:00,Y,N,")
}
