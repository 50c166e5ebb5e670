package roster

import "time"

// Gender is the canonical gender stored for a player.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParticipationDays records which tournament days a player attends.
type ParticipationDays string

const (
	DayOne   ParticipationDays = "day_1"
	DayTwo   ParticipationDays = "day_2"
	BothDays ParticipationDays = "both_days"
)

// Priority of a checklist item.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Category groups checklist items by tournament phase.
type Category string

const (
	CategoryPreRegistration  Category = "pre_registration"
	CategoryRegistration     Category = "registration"
	CategoryPreTournament    Category = "pre_tournament"
	CategoryDuringTournament Category = "during_tournament"
	CategoryPostTournament   Category = "post_tournament"
	CategoryCeremony         Category = "ceremony"
	CategoryLogistics        Category = "logistics"
	CategoryRules            Category = "rules"
	CategorySeeding          Category = "seeding"
)

// Categories lists every valid checklist category.
var Categories = []Category{
	CategoryPreRegistration,
	CategoryRegistration,
	CategoryPreTournament,
	CategoryDuringTournament,
	CategoryPostTournament,
	CategoryCeremony,
	CategoryLogistics,
	CategoryRules,
	CategorySeeding,
}

const (
	TournamentStatusRegistrationOpen = "registration_open"
	TeamStatusApproved               = "approved"
	ChecklistStatusPending           = "pending"
	RoleAdmin                        = "admin"
)

// Defaults applied to records the importer creates on its own.
const (
	DefaultTournamentName     = "UDAAN 2025"
	DefaultTournamentLocation = "To be determined"
	DefaultCommunity          = "Unknown"
	PlaceholderPhone          = "0000000000"
	TeamEmailDomain           = "team.local"
	PlayerEmailDomain         = "temp.local"
)

// Profile is a user account that can own tournaments and captain teams.
type Profile struct {
	ID       string
	FullName string
	Email    string
}

// Tournament is identified by its name.
type Tournament struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Location  string
	Status    string
	CreatedBy string
}

// Team is identified by the pair (TournamentID, Name).
type Team struct {
	ID           string
	TournamentID string
	Name         string
	CaptainID    string
	Email        string
	Phone        string
	Status       string
	Community    string
}

// Player is a normalized registration row ready to be stored.
type Player struct {
	ID                    string
	TeamID                string
	Name                  string
	Email                 string
	Gender                Gender
	DateOfBirth           *time.Time
	ContactNumber         string
	ParentContact         string
	ParticipationDays     ParticipationDays
	ParentalConsent       bool
	MediaConsent          bool
	QueriesComments       string
	StandardCertURL       string
	AdvanceCertURL        string
	Community             string
	RegistrationTimestamp *time.Time
	Verified              bool
}

// ChecklistItem is a normalized planning task for a tournament.
type ChecklistItem struct {
	ID           string
	TournamentID string
	Category     Category
	TaskName     string
	Description  string
	Priority     Priority
	DueDate      *time.Time
	Status       string
}
