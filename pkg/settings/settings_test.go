package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr error
	}{
		{"defaults are valid", func(s *Settings) {}, nil},
		{"six day week", func(s *Settings) { s.WorkSchedule = Schedule61 }, nil},
		{"unknown schedule", func(s *Settings) { s.WorkSchedule = "4/3" }, ErrInvalidSettings},
		{"malformed start", func(s *Settings) { s.WorkHours.Start = "9am" }, ErrInvalidSettings},
		{"malformed end", func(s *Settings) { s.WorkHours.End = "25:00" }, ErrInvalidSettings},
		{"unpadded start", func(s *Settings) { s.WorkHours.Start = "9:00" }, ErrInvalidSettings},
		{"inverted hours", func(s *Settings) { s.WorkHours = WorkHours{Start: "18:00", End: "09:00"} }, ErrInvalidSettings},
		{"empty window", func(s *Settings) { s.WorkHours = WorkHours{Start: "09:00", End: "09:00"} }, ErrInvalidSettings},
		{"empty holiday date", func(s *Settings) { s.Holidays = []Holiday{{Kind: KindHoliday}} }, ErrEmptyHolidayDate},
		{"bad holiday date", func(s *Settings) { s.Holidays = []Holiday{{Date: "01.05.2024", Kind: KindHoliday}} }, ErrInvalidHolidayDay},
		{"bad holiday kind", func(s *Settings) { s.Holidays = []Holiday{{Date: "2024-05-01", Kind: "weekend"}} }, ErrInvalidSettings},
		{"duplicate holiday", func(s *Settings) {
			s.Holidays = []Holiday{{Date: "2024-05-01", Kind: KindHoliday}, {Date: "2024-05-01", Kind: KindPreHoliday}}
		}, ErrDuplicateHoliday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSettings_Clone(t *testing.T) {
	s := Defaults()
	s.Holidays = []Holiday{{Date: "2024-05-01", Kind: KindHoliday}}

	c := s.Clone()
	c.Holidays[0].Date = "2024-05-09"

	assert.Equal(t, "2024-05-01", s.Holidays[0].Date)
}

func TestDecode_AppliesDefaultsAndSorts(t *testing.T) {
	s, err := decode([]byte(`{"workSchedule":"6/1","holidays":[{"date":"2024-05-09","type":"holiday"},{"date":"2024-05-01","type":"pre-holiday"}]}`))

	assert.NoError(t, err)
	assert.Equal(t, Schedule61, s.WorkSchedule)
	assert.Equal(t, WorkHours{Start: "09:00", End: "18:00"}, s.WorkHours)
	assert.Equal(t, []Holiday{{Date: "2024-05-01", Kind: KindPreHoliday}, {Date: "2024-05-09", Kind: KindHoliday}}, s.Holidays)
}

func TestUserMessage(t *testing.T) {
	c := NewController(context.Background(), NewStubStore(), nil)
	_, err := c.AddHoliday(context.Background(), "2024-05-01", KindHoliday)
	require.NoError(t, err)

	_, err = c.AddHoliday(context.Background(), "2024-05-01", KindPreHoliday)
	message, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Этот день уже добавлен", message)
	assert.NotContains(t, err.Error(), "Этот")

	_, err = c.AddHoliday(context.Background(), "", KindHoliday)
	message, ok = UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Выберите дату", message)

	_, ok = UserMessage(ErrInvalidSettings)
	assert.False(t, ok)
}
