package export

import "time"

// ResultRow is one assessment line of the export sheet. Score fields are
// preformatted strings so missing scores can render as "-".
type ResultRow struct {
	Employee  string
	Title     string
	Category  string
	Status    string
	Self      string
	Manager   string
	Approver2 string
	Approver3 string
	GM        string
	Final     string
}

// Sheet is an assessment result export: a fixed column set with a title band
// and a generation timestamp.
type Sheet struct {
	Title       string
	GeneratedAt time.Time
	Rows        []ResultRow
}

func columns() []string {
	return []string{"Employee", "Title", "Category", "Status", "Self", "Manager", "Approver2", "Approver3", "GM", "Final"}
}

func (r ResultRow) values() []string {
	return []string{r.Employee, r.Title, r.Category, r.Status, r.Self, r.Manager, r.Approver2, r.Approver3, r.GM, r.Final}
}
