package model

// Event statuses.  Every directed transition between the three values is
// legal; there is no automatic transition (e.g. no auto-archival once the
// event date has passed).
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCanceled  = "canceled"
)

// ValidEventStatus reports whether s is one of the three event statuses.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCanceled:
		return true
	}
	return false
}

// Event represents a published or draft event owned by an organizer.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Description – free-form description.
//  Date        – scheduled date/time as provided by the organizer.
//  Location    – venue name or address.
//  Category    – free-form category tag (concert, sport, ...).
//  OrganizerID – owning principal; immutable after creation.
//  Status      – draft, published or canceled.
//  ImageURL    – URL of the uploaded event image, if any.
//  ImageAlt    – alt text for the image.
type Event struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	OrganizerID uint64 `json:"organizer_id"`
	Status      string `json:"status"`
	ImageURL    string `json:"image_url"`
	ImageAlt    string `json:"image_alt"`
}
