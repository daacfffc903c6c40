package domain

import "time"

// Prayer records that a user prayed (or started) a section.
type Prayer struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"userId"`
	Section     Section    `json:"section"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MarkCompleted sets or clears completion, stamping CompletedAt.
func (p *Prayer) MarkCompleted(completed bool, now time.Time) {
	p.Completed = completed
	if completed {
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
}

// Intention is a personal prayer intention. Removal is a soft delete.
type Intention struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomPrayer is a user-authored prayer shown in an opening or closing section.
type CustomPrayer struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Section   Section   `json:"section"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomPrayerUpdate holds the editable fields of a custom prayer. Nil
// fields are left unchanged.
type CustomPrayerUpdate struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Section *Section `json:"section,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u CustomPrayerUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Section == nil
}

// Apply copies the set fields onto p.
func (u CustomPrayerUpdate) Apply(p *CustomPrayer) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Section != nil {
		p.Section = *u.Section
	}
}

// IntentionEntry is the device-held form of an intention.
type IntentionEntry struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// CustomPrayerEntry is the device-held form of a custom prayer.
type CustomPrayerEntry struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Section Section `json:"section"`
}
