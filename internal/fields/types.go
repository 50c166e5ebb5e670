package fields

// Field identifies a semantic column independent of its header wording.
type Field int

const (
	TeamName Field = iota
	Community
	PlayerName
	Gender
	DateOfBirth
	ParticipationDays
	Permissions
	ContactNumber
	ParentContact
	Timestamp
	StandardCertURL
	AdvanceCertURL
	Queries
	Category
	TaskName
	Description
	Priority
	DueDate
)

var fieldNames = map[Field]string{
	TeamName:          "team_name",
	Community:         "community",
	PlayerName:        "player_name",
	Gender:            "gender",
	DateOfBirth:       "date_of_birth",
	ParticipationDays: "participation_days",
	Permissions:       "permissions",
	ContactNumber:     "contact_number",
	ParentContact:     "parent_contact",
	Timestamp:         "timestamp",
	StandardCertURL:   "standard_cert_url",
	AdvanceCertURL:    "advance_cert_url",
	Queries:           "queries",
	Category:          "category",
	TaskName:          "task_name",
	Description:       "description",
	Priority:          "priority",
	DueDate:           "due_date",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField returns the field with the given name.
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// Cell is one header/value pair of a row.
type Cell struct {
	Header string
	Value  string
}

// Row is a spreadsheet row with its cells in column order.
type Row struct {
	// Line is the 1-based line of the row in its source file.
	Line  int
	Cells []Cell
}

// Headers returns the header of every cell, in order.
func (r Row) Headers() []string {
	headers := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		headers[i] = c.Header
	}
	return headers
}

// Matcher holds the header patterns of one field.
type Matcher struct {
	Synonyms []string `yaml:"synonyms"`
	Exclude  []string `yaml:"exclude"`
}

// Table maps every field to its matcher.
type Table map[Field]Matcher
