package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-rental/internal/model"
)

func Test_User_Age_TruncatesToWholeYears(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		want      int
	}{
		{
			name:      "birthday_earlier_this_year",
			birthDate: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
			want:      34,
		},
		{
			name:      "birthday_later_this_year",
			birthDate: time.Date(1990, 11, 20, 0, 0, 0, 0, time.UTC),
			want:      33,
		},
		{
			name:      "birthday_today_counts",
			birthDate: time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC),
			want:      18,
		},
		{
			name:      "day_before_birthday",
			birthDate: time.Date(2006, 6, 16, 0, 0, 0, 0, time.UTC),
			want:      17,
		},
		{
			name:      "born_this_year",
			birthDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:      "birth_date_in_future",
			birthDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := model.User{BirthDate: tc.birthDate}
			assert.Equal(t, tc.want, u.Age(at))
		})
	}
}

func Test_Movie_Available(t *testing.T) {
	assert.True(t, model.Movie{}.Available())

	rid := uint64(2)
	assert.False(t, model.Movie{RentalID: &rid}.Available())
}
