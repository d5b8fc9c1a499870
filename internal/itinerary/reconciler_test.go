package itinerary

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traincal/internal/model"
)

var est = time.FixedZone("EST", -5*60*60)

var (
	older = time.Date(2019, 2, 1, 12, 0, 0, 0, time.UTC)
	newer = time.Date(2019, 3, 1, 12, 0, 0, 0, time.UTC)
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, est)
}

func emailTrain(name string, depart time.Time) model.Train {
	return model.NewIncompleteTrain(name, depart)
}

func originalItinerary() model.Itinerary {
	return model.Itinerary{
		emailTrain("Train 173: NEW YORK (PENN STATION), NY - WASHINGTON, DC", at(2019, 3, 15, 15, 35)),
		emailTrain("Train 90: WASHINGTON, DC - NEW YORK (PENN STATION), NY", at(2019, 3, 17, 20, 30)),
	}
}

func modifiedItinerary() model.Itinerary {
	return model.Itinerary{
		emailTrain("Train 173: NEW YORK (PENN STATION), NY - WASHINGTON, DC", at(2019, 4, 19, 15, 35)),
		emailTrain("Train 90: WASHINGTON, DC - NEW YORK (PENN STATION), NY", at(2019, 4, 21, 20, 30)),
	}
}

func TestMerge_FirstSnapshotBecomesCurrent(t *testing.T) {
	r := New("")
	require.NoError(t, r.Merge(older, nil, "ABCDEF"))

	ts, ok := r.Timestamp()
	assert.True(t, ok)
	assert.True(t, ts.Equal(older))
	assert.Empty(t, r.Current())
	assert.Empty(t, r.History())
	assert.Equal(t, "ABCDEF", r.ReservationNumber())
}

func TestMerge_EmptyPlaceholderIsNotArchived(t *testing.T) {
	r := New("ABCDEF")
	require.NoError(t, r.Merge(older, model.Itinerary{}, ""))
	require.NoError(t, r.Merge(newer, modifiedItinerary(), "ABCDEF"))

	assert.Len(t, r.Current(), 2)
	assert.Empty(t, r.History())
}

func TestMerge_OrderIndependent(t *testing.T) {
	inOrder := New("")
	require.NoError(t, inOrder.Merge(older, originalItinerary(), "ABCDEF"))
	require.NoError(t, inOrder.Merge(newer, modifiedItinerary(), "ABCDEF"))

	outOfOrder := New("")
	require.NoError(t, outOfOrder.Merge(newer, modifiedItinerary(), "ABCDEF"))
	require.NoError(t, outOfOrder.Merge(older, originalItinerary(), "ABCDEF"))

	if diff := cmp.Diff(inOrder.Display(), outOfOrder.Display()); diff != "" {
		t.Errorf("display differs by merge order (-inOrder +outOfOrder):\n%s", diff)
	}
	tsA, _ := inOrder.Timestamp()
	tsB, _ := outOfOrder.Timestamp()
	assert.True(t, tsA.Equal(tsB))
	require.Len(t, outOfOrder.History(), 1)
	assert.Equal(t, originalItinerary().Display(), outOfOrder.History()[0].Display())
}

func TestMerge_ThreeSnapshotsHistoryIsSetEqual(t *testing.T) {
	third := model.Itinerary{emailTrain("Train 158: WASHINGTON, DC - PHILADELPHIA", at(2019, 5, 1, 9, 0))}
	latest := time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC)

	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {0, 2, 1}}
	snaps := []model.Snapshot{
		{Timestamp: older, ReservationNumber: "ABCDEF", Trains: originalItinerary()},
		{Timestamp: newer, ReservationNumber: "ABCDEF", Trains: modifiedItinerary()},
		{Timestamp: latest, ReservationNumber: "ABCDEF", Trains: third},
	}

	for _, order := range orders {
		r := New("")
		for _, i := range order {
			require.NoError(t, r.MergeSnapshot(snaps[i]))
		}
		assert.Equal(t, third.Display(), r.Current().Display(), "order %v", order)
		ts, _ := r.Timestamp()
		assert.True(t, ts.Equal(latest), "order %v", order)

		got := make([][]model.TrainDisplay, 0)
		for _, it := range r.History() {
			got = append(got, it.Display())
		}
		assert.ElementsMatch(t, [][]model.TrainDisplay{
			originalItinerary().Display(),
			modifiedItinerary().Display(),
		}, got, "order %v", order)
	}
}

func TestMerge_EqualTimestampKeepsFirst(t *testing.T) {
	r := New("")
	require.NoError(t, r.Merge(older, originalItinerary(), "ABCDEF"))
	require.NoError(t, r.Merge(older, modifiedItinerary(), "ABCDEF"))

	assert.Equal(t, originalItinerary().Display(), r.Current().Display())
	require.Len(t, r.History(), 1)
	assert.Equal(t, modifiedItinerary().Display(), r.History()[0].Display())
}

func TestMerge_ReservationMismatch(t *testing.T) {
	r := New("")
	require.NoError(t, r.Merge(older, originalItinerary(), "1D4433"))

	err := r.Merge(newer, modifiedItinerary(), "AEF964")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReservationMismatch))

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "1D4433", mismatch.Have)
	assert.Equal(t, "AEF964", mismatch.Got)

	// State is left as it was.
	assert.Equal(t, "1D4433", r.ReservationNumber())
	assert.Equal(t, originalItinerary().Display(), r.Current().Display())
	assert.Empty(t, r.History())
	ts, _ := r.Timestamp()
	assert.True(t, ts.Equal(older))
}

func TestMerge_EmptyNumberIsAccepted(t *testing.T) {
	r := New("1D4433")
	require.NoError(t, r.Merge(older, originalItinerary(), ""))
	assert.Equal(t, "1D4433", r.ReservationNumber())
}

func TestCancel(t *testing.T) {
	r := New("1D4433")
	require.NoError(t, r.Merge(older, originalItinerary(), ""))
	r.Cancel()
	r.Cancel()
	assert.True(t, r.Cancelled())
	assert.Len(t, r.Current(), 2)
}

func TestDescribe(t *testing.T) {
	nyToDC := emailTrain("Train 173: NEW YORK (PENN STATION), NY - WASHINGTON, DC", at(2019, 1, 11, 15, 35))
	dcToNY := emailTrain("Train 158: WASHINGTON, DC - NEW YORK (PENN STATION), NY", at(2019, 1, 13, 18, 20))
	dcToPhl := emailTrain("Train 158: WASHINGTON, DC - PHILADELPHIA", at(2019, 1, 13, 18, 20))
	phlToSea := emailTrain("Train 158: PHILADELPHIA - SEATTLE", at(2019, 1, 13, 18, 20))

	tests := []struct {
		name   string
		trains model.Itinerary
		want   string
	}{
		{"no trains", nil, "(no trains)"},
		{"one way", model.Itinerary{nyToDC}, "NEW YORK (PENN STATION), NY -> WASHINGTON, DC (one-way)"},
		{"round trip", model.Itinerary{nyToDC, dcToNY}, "NEW YORK (PENN STATION), NY -> WASHINGTON, DC (round trip)"},
		{"two legs onward", model.Itinerary{nyToDC, dcToPhl}, "NEW YORK (PENN STATION), NY -> PHILADELPHIA"},
		{"three legs", model.Itinerary{nyToDC, dcToPhl, phlToSea}, "NEW YORK (PENN STATION), NY -> SEATTLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("1D4433")
			require.NoError(t, r.Merge(older, tt.trains, ""))
			assert.Equal(t, tt.want, r.Describe())
		})
	}
}

func TestDescribe_TicketTrainsUseCodes(t *testing.T) {
	r := New("ABCDEF")
	require.NoError(t, r.Merge(older, model.Itinerary{
		model.NewTicketTrain("173", "NYP", "WAS", at(2019, 4, 19, 15, 35), at(2019, 4, 19, 19, 10)),
		model.NewTicketTrain("90", "WAS", "NYP", at(2019, 4, 21, 20, 30), at(2019, 4, 21, 23, 58)),
	}, ""))
	assert.Equal(t, "NYP -> WAS (round trip)", r.Describe())
}

func TestSearchURLs(t *testing.T) {
	r := New("1D4433")
	assert.Equal(t, "https://calendar.google.com/calendar/r/search?q=amtrak2calendar%201D4433", r.CalendarSearchURL())
	assert.Equal(t, "https://mail.google.com/mail/u/0/#search/amtrak+1D4433", r.MailSearchURL())

	odd := New("A/B C")
	assert.Equal(t, "https://calendar.google.com/calendar/r/search?q=amtrak2calendar%20A%2FB%20C", odd.CalendarSearchURL())
	assert.Equal(t, "https://mail.google.com/mail/u/0/#search/amtrak+A%2FB+C", odd.MailSearchURL())
}

func TestDisplay_Golden(t *testing.T) {
	r := New("")
	require.NoError(t, r.Merge(newer, modifiedItinerary(), "ABCDEF"))
	require.NoError(t, r.Merge(older, originalItinerary(), "ABCDEF"))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.AssertJson(t, "display_rescheduled", r.Display())
}
