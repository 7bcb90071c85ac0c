package model

import "time"

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
	ProjectStatusWon        ProjectStatus = "won"
	ProjectStatusLost       ProjectStatus = "lost"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusInProgress, ProjectStatusCompleted,
		ProjectStatusCancelled, ProjectStatusWon, ProjectStatusLost:
		return true
	}
	return false
}

type Project struct {
	ID             int           `json:"project_id"`
	Code           string        `json:"project_code"`
	CustomerID     int           `json:"customer_id"`
	Name           string        `json:"project_name"`
	Status         ProjectStatus `json:"status"`
	ContractAmount *int64        `json:"contract_amount"`
	Description    string        `json:"description"`
	CreatedBy      int           `json:"created_by"`
	UpdatedBy      int           `json:"updated_by"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProjectView joins a project with its customer name and owned records for
// read responses.
type ProjectView struct {
	Project
	CustomerName     string           `json:"customer_name"`
	ContactHistories []ContactHistory `json:"contact_histories"`
}

// ContactHistory rows are replaced wholesale on project update; they carry
// no identity of their own beyond the owning project.
type ContactHistory struct {
	ID          int       `json:"contact_history_id"`
	ProjectID   int       `json:"project_id"`
	ContactDate time.Time `json:"contact_date"`
	Method      string    `json:"method"`
	StaffName   string    `json:"staff_name"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// Empty reports whether the row carries any meaningful content. Blank rows
// coming from the frontend's grid are dropped before insert.
func (c ContactHistory) Empty() bool {
	return c.Method == "" && c.StaffName == "" && c.Note == "" && c.ContactDate.IsZero()
}

type ConstructionStatus string

const (
	ConstructionStatusPlanned    ConstructionStatus = "planned"
	ConstructionStatusInProgress ConstructionStatus = "in_progress"
	ConstructionStatusCompleted  ConstructionStatus = "completed"
)

type ConstructionDetail struct {
	ID           int                `json:"construction_detail_id"`
	ProjectID    int                `json:"project_id"`
	ContractorID int                `json:"contractor_id"`
	WorkName     string             `json:"work_name"`
	Progress     int                `json:"progress"`
	StartDate    *time.Time         `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`
	Status       ConstructionStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
