package model

// CaseContact associates a contact with a case under a role label.
// At most one link exists per (case, contact) pair; relinking the same
// pair replaces the role.
type CaseContact struct {
	CaseID    string `json:"case_id" db:"case_id"`
	ContactID int64  `json:"contact_id" db:"contact_id"`

	// Role is free text, e.g. "Plaintiff" or "Attorney for Defendant".
	Role string `json:"role" db:"role"`
}

// LinkedContact is a contact joined with its role in a particular case.
type LinkedContact struct {
	Contact
	Role string `json:"role" db:"role"`
}

// LinkedCase is a case joined with the role a particular contact holds in it.
type LinkedCase struct {
	CaseID   string `json:"case_id" db:"case_id"`
	CaseName string `json:"case_name" db:"case_name"`
	Role     string `json:"role" db:"role"`
}
