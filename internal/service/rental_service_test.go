package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/service"
)

// ----- fakes -----

type fakeUsers struct {
	users map[uint64]model.User
	calls []uint64
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	f.calls = append(f.calls, id)
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeMovies struct {
	movies map[uint64]model.Movie
	calls  []uint64
}

func (f *fakeMovies) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return model.Movie{}, err
	}
	f.calls = append(f.calls, id)
	m, ok := f.movies[id]
	if !ok {
		return model.Movie{}, repository.ErrMovieNotFound
	}
	return m, nil
}

type fakeRentals struct {
	byUser       map[uint64][]model.Rental
	listErr      error
	listCalls    int
	created      []model.RentalDraft
	createResult model.Rental
	createErr    error
}

func (f *fakeRentals) ListAll(ctx context.Context) ([]model.Rental, error) { return nil, nil }

func (f *fakeRentals) GetByID(ctx context.Context, id uint64) (model.Rental, error) {
	return model.Rental{}, repository.ErrRentalNotFound
}

func (f *fakeRentals) ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byUser[userID], nil
}

func (f *fakeRentals) Create(ctx context.Context, draft model.RentalDraft) (model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return model.Rental{}, err
	}
	f.created = append(f.created, draft)
	if f.createErr != nil {
		return model.Rental{}, f.createErr
	}
	return f.createResult, nil
}

// ----- helpers -----

func birthDateForAge(years int) time.Time {
	// One extra day past the anniversary keeps the age stable while the
	// test runs.
	return time.Now().UTC().AddDate(-years, 0, -1)
}

func newPipeline(users map[uint64]model.User, movies map[uint64]model.Movie, rentals *fakeRentals) (*service.RentalService, *fakeUsers, *fakeMovies) {
	fu := &fakeUsers{users: users}
	fm := &fakeMovies{movies: movies}
	return service.NewRentalService(fu, fm, rentals), fu, fm
}

// ----- eligibility validator -----

func Test_CheckEligibility(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	attached := uint64(2)

	tests := []struct {
		name    string
		user    model.User
		movie   model.Movie
		wantErr error
	}{
		{
			name:  "adult_renting_regular_movie",
			user:  model.User{BirthDate: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
			movie: model.Movie{AdultsOnly: false},
		},
		{
			name:  "adult_renting_adults_only_movie",
			user:  model.User{BirthDate: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
			movie: model.Movie{AdultsOnly: true},
		},
		{
			name:  "exactly_eighteen_passes_age_gate",
			user:  model.User{BirthDate: time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC)},
			movie: model.Movie{AdultsOnly: true},
		},
		{
			name:    "seventeen_fails_adults_only",
			user:    model.User{BirthDate: time.Date(2006, 6, 16, 0, 0, 0, 0, time.UTC)},
			movie:   model.Movie{AdultsOnly: true},
			wantErr: service.ErrInsufficientAge,
		},
		{
			name:  "minor_renting_regular_movie_passes",
			user:  model.User{BirthDate: time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)},
			movie: model.Movie{AdultsOnly: false},
		},
		{
			name:    "attached_movie_fails_availability",
			user:    model.User{BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
			movie:   model.Movie{RentalID: &attached},
			wantErr: service.ErrMovieInRental,
		},
		{
			name:    "age_gate_wins_over_availability",
			user:    model.User{BirthDate: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)},
			movie:   model.Movie{AdultsOnly: true, RentalID: &attached},
			wantErr: service.ErrInsufficientAge,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := service.CheckEligibility(tc.user, tc.movie, at)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_CheckEligibility_ErrorMessages(t *testing.T) {
	assert.Equal(t, "Cannot see that movie.", service.ErrInsufficientAge.Error())
	assert.Equal(t, "Movie already in a rental.", service.ErrMovieInRental.Error())
	assert.Equal(t, "The user already have a rental!", service.ErrPendentRental.Error())
}

// ----- creation pipeline -----

func Test_CreateRental_Succeeds(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	persisted := model.Rental{
		ID:      7,
		UserID:  1,
		Date:    start,
		EndDate: end,
		Closed:  false,
		Movies:  []model.Movie{{ID: 10, Name: "Movie 1"}},
	}
	rentals := &fakeRentals{createResult: persisted}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(25)}},
		map[uint64]model.Movie{10: {ID: 10, Name: "Movie 1"}},
		rentals,
	)

	got, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     start,
		EndDate:  end,
	})

	require.NoError(t, err)
	// The orchestrator returns exactly what persistence returned.
	assert.Equal(t, persisted, got)
	require.Len(t, rentals.created, 1)
	draft := rentals.created[0]
	assert.Equal(t, uint64(1), draft.UserID)
	assert.Equal(t, start, draft.Date)
	assert.Equal(t, end, draft.EndDate)
	assert.False(t, draft.Closed)
	require.Len(t, draft.Movies, 1)
	assert.Equal(t, uint64(10), draft.Movies[0].ID)
}

func Test_CreateRental_DefaultsEndDate(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rentals := &fakeRentals{}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     start,
	})

	require.NoError(t, err)
	require.Len(t, rentals.created, 1)
	assert.Equal(t, start.AddDate(0, 0, service.RentalDaysLimit), rentals.created[0].EndDate)
}

func Test_CreateRental_UnderageUser_AdultsOnlyMovie(t *testing.T) {
	rentals := &fakeRentals{}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(15)}},
		map[uint64]model.Movie{10: {ID: 10, AdultsOnly: true}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, service.ErrInsufficientAge)
	assert.Empty(t, rentals.created, "rejected request must not reach persistence")
}

func Test_CreateRental_MovieAlreadyAttached(t *testing.T) {
	attached := uint64(2)
	rentals := &fakeRentals{}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10, RentalID: &attached}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, service.ErrMovieInRental)
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_UserWithOpenRental(t *testing.T) {
	rentals := &fakeRentals{
		byUser: map[uint64][]model.Rental{
			1: {
				{ID: 3, UserID: 1, Closed: true},
				{ID: 4, UserID: 1, Closed: false},
			},
		},
	}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, service.ErrPendentRental)
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_ClosedRentalsDoNotBlock(t *testing.T) {
	rentals := &fakeRentals{
		byUser: map[uint64][]model.Rental{
			1: {{ID: 3, UserID: 1, Closed: true}},
		},
	}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.NoError(t, err)
	assert.Len(t, rentals.created, 1)
}

func Test_CreateRental_UserNotFoundPropagates(t *testing.T) {
	rentals := &fakeRentals{}
	svc, _, fm := newPipeline(nil, map[uint64]model.Movie{10: {ID: 10}}, rentals)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   99,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Empty(t, fm.calls, "movies are not resolved without a user")
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_MovieNotFoundPropagates(t *testing.T) {
	rentals := &fakeRentals{}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		nil,
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{99},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_FirstFailingMovieAborts(t *testing.T) {
	attached := uint64(5)
	rentals := &fakeRentals{}
	svc, _, fm := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{
			10: {ID: 10},
			11: {ID: 11, RentalID: &attached},
			// 12 does not exist; it must never be looked up.
		},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10, 11, 12},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, service.ErrMovieInRental)
	assert.Equal(t, []uint64{10, 11}, fm.calls)
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_MovieChecksRunBeforePendingGuard(t *testing.T) {
	attached := uint64(5)
	rentals := &fakeRentals{
		byUser: map[uint64][]model.Rental{1: {{ID: 3, Closed: false}}},
	}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10, RentalID: &attached}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	// The per-movie gates sit earlier in the fixed sequence, so their
	// failure surfaces even though the guard would also fail.
	assert.ErrorIs(t, err, service.ErrMovieInRental)
	assert.Zero(t, rentals.listCalls)
}

func Test_CreateRental_DuplicateMovieIDsPreserved(t *testing.T) {
	rentals := &fakeRentals{}
	svc, _, fm := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10, 10},
		Date:     time.Now().UTC(),
	})

	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 10}, fm.calls)
	require.Len(t, rentals.created, 1)
	assert.Len(t, rentals.created[0].Movies, 2)
}

func Test_CreateRental_RentalLookupErrorPropagates(t *testing.T) {
	lookupErr := errors.New("rentals unavailable")
	rentals := &fakeRentals{listErr: lookupErr}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, rentals.created)
}

func Test_CreateRental_PersistenceErrorPropagates(t *testing.T) {
	rentals := &fakeRentals{createErr: repository.ErrMovieTaken}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	_, err := svc.CreateRental(context.Background(), service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, repository.ErrMovieTaken)
}

func Test_CreateRental_CancelledContextAbortsBeforePersistence(t *testing.T) {
	rentals := &fakeRentals{}
	svc, _, _ := newPipeline(
		map[uint64]model.User{1: {ID: 1, BirthDate: birthDateForAge(30)}},
		map[uint64]model.Movie{10: {ID: 10}},
		rentals,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateRental(ctx, service.CreateRentalRequest{
		UserID:   1,
		MovieIDs: []uint64{10},
		Date:     time.Now().UTC(),
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rentals.created)
}
