package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSections_Order(t *testing.T) {
	assert.Equal(t, []Section{SectionInitium, SectionGaudiosa, SectionDolorosa, SectionGloriosa, SectionUltima}, Sections())
	assert.Equal(t, 5, SectionCount())

	for i, s := range Sections() {
		assert.Equal(t, i, s.Index())
		got, ok := SectionAt(i)
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := SectionAt(5)
	assert.False(t, ok)
	_, ok = SectionAt(-1)
	assert.False(t, ok)
}

func TestSection_Kinds(t *testing.T) {
	tests := []struct {
		section        Section
		mysteryBearing bool
		custom         bool
	}{
		{SectionInitium, false, true},
		{SectionGaudiosa, true, false},
		{SectionDolorosa, true, false},
		{SectionGloriosa, true, false},
		{SectionUltima, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			assert.True(t, tt.section.Valid())
			assert.Equal(t, tt.mysteryBearing, tt.section.MysteryBearing())
			assert.Equal(t, tt.custom, tt.section.AcceptsCustomPrayers())
		})
	}

	assert.False(t, Section("luminosa").Valid())
	assert.Equal(t, "Oratio", Section("luminosa").Title())
	assert.Equal(t, "Mysteria Dolorosa", SectionDolorosa.Title())
}

func TestPrayer_MarkCompleted(t *testing.T) {
	now := time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)
	p := &Prayer{Section: SectionGloriosa}

	p.MarkCompleted(true, now)
	assert.True(t, p.Completed)
	assert.Equal(t, now, *p.CompletedAt)

	p.MarkCompleted(false, now)
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
}

func TestCustomPrayerUpdate_Apply(t *testing.T) {
	title := "Oração da manhã"
	p := &CustomPrayer{Title: "old", Content: "keep", Section: SectionInitium}
	u := CustomPrayerUpdate{Title: &title}

	assert.False(t, u.Empty())
	u.Apply(p)

	assert.Equal(t, title, p.Title)
	assert.Equal(t, "keep", p.Content)
	assert.True(t, CustomPrayerUpdate{}.Empty())
}
