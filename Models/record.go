package Models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar form used everywhere records are persisted or
// exchanged. Dates are never written as epoch timestamps.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component. The zero value means
// "no value" and serializes as an empty string.
type Date struct {
	time.Time
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RecordType classifies a journal entry.
type RecordType string

const (
	TypeMaintenance RecordType = "MAINTENANCE"
	TypeRepair      RecordType = "REPAIR"
	TypeFuel        RecordType = "FUEL"
	TypeInsurance   RecordType = "INSURANCE"
	TypeOther       RecordType = "OTHER"
)

var recordTypeNames = map[RecordType]string{
	TypeMaintenance: "Техническое обслуживание",
	TypeRepair:      "Ремонт",
	TypeFuel:        "Заправка",
	TypeInsurance:   "Страхование",
	TypeOther:       "Другое",
}

// DisplayName returns the human-readable label shown to users. Search
// matches against these labels as well as the raw fields.
func (t RecordType) DisplayName() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// RecordStatus is the lifecycle state of a record. ACTIVE records with a
// past due date are promoted to PENDING by the status sweep; COMPLETED and
// CANCELLED are terminal and only set by explicit user updates.
type RecordStatus string

const (
	StatusActive    RecordStatus = "ACTIVE"
	StatusCompleted RecordStatus = "COMPLETED"
	StatusPending   RecordStatus = "PENDING"
	StatusCancelled RecordStatus = "CANCELLED"
)

var recordStatusNames = map[RecordStatus]string{
	StatusActive:    "Активно",
	StatusCompleted: "Завершено",
	StatusPending:   "В процессе",
	StatusCancelled: "Отменено",
}

func (s RecordStatus) DisplayName() string {
	if name, ok := recordStatusNames[s]; ok {
		return name
	}
	return string(s)
}

// Priority of a journal entry.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var priorityNames = map[Priority]string{
	PriorityHigh:   "Высокий",
	PriorityMedium: "Средний",
	PriorityLow:    "Низкий",
}

func (p Priority) DisplayName() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return string(p)
}

// HistoryEntry is one immutable note in a record's change log.
type HistoryEntry struct {
	Date   Date   `json:"date"`
	Action string `json:"action"`
}

// CarRecord is one logged vehicle event: maintenance, repair, fuel purchase,
// insurance, or anything else worth keeping in the journal.
type CarRecord struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        RecordType     `json:"type"`
	Cost        float64        `json:"cost"`
	Mileage     float64        `json:"mileage"`
	Date        Date           `json:"date"`
	DueDate     Date           `json:"dueDate"`
	Status      RecordStatus   `json:"status"`
	Priority    Priority       `json:"priority"`
	FuelAmount  float64        `json:"fuelAmount"`
	FuelPrice   float64        `json:"fuelPrice"`
	History     []HistoryEntry `json:"history"`
}

// NewCarRecord returns a record with the defaults every entry starts from:
// today's date, ACTIVE status, MEDIUM priority, empty history. The ID stays
// unset until the store assigns one.
func NewCarRecord() *CarRecord {
	return &CarRecord{
		Date:     Today(),
		Status:   StatusActive,
		Priority: PriorityMedium,
		History:  []HistoryEntry{},
	}
}

// AddHistoryEntry appends a dated note to the record's change log. History is
// append-only; nothing ever removes or rewrites earlier entries.
func (r *CarRecord) AddHistoryEntry(action string) {
	r.History = append(r.History, HistoryEntry{Date: Today(), Action: action})
}

// Clone returns a deep copy, so callers can hand records out without exposing
// the stored history slice.
func (r *CarRecord) Clone() CarRecord {
	out := *r
	out.History = make([]HistoryEntry, len(r.History))
	copy(out.History, r.History)
	return out
}
