package model

// Court is the client view of a court.
type Court struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	IsActive    bool   `json:"isActive"`
	OpeningTime string `json:"openingTime"` // "08:00"
	ClosingTime string `json:"closingTime"` // "22:00"
	SlotMinutes int    `json:"slotMinutes"`
}

// CourtInput is the body of POST /courts.
type CourtInput struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	OpenTime    string `json:"openTime"`
	CloseTime   string `json:"closeTime"`
	SlotMinutes int    `json:"slotMinutes"`
}

// ScheduleInput is the body of PATCH /courts/{id}/schedule.
type ScheduleInput struct {
	OpenTime    string `json:"openTime"`
	CloseTime   string `json:"closeTime"`
	SlotMinutes int    `json:"slotMinutes"`
}

// DefaultCourtInput mirrors the defaults of the admin create form.
func DefaultCourtInput() CourtInput {
	return CourtInput{OpenTime: "08:00", CloseTime: "22:00", SlotMinutes: 60}
}

// Schedule lists the bookable slots of a court for one date.
type Schedule struct {
	CourtID   string   `json:"courtId"`
	CourtName string   `json:"courtName"`
	Date      string   `json:"date,omitempty"`
	Slots     []string `json:"slots"`
}

// CourtPage is one page of GET /courts/paged.
type CourtPage struct {
	Courts      []Court `json:"courts"`
	Page        int     `json:"page"`
	TotalPages  int     `json:"totalPages"`
	TotalCourts int     `json:"totalCourts"`
}
