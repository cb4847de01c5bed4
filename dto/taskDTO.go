package dto

type CreateTaskRequest struct {
	Title    string `json:"title" binding:"required"`
	Date     string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	DueDate  string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Time     string `json:"time" binding:"omitempty,datetime=15:04"`
	Priority string `json:"priority" binding:"omitempty,oneof=normal high"`
	HasAlarm bool   `json:"hasAlarm"`
}

type ReplaceTasksRequest struct {
	Tasks []TaskPayload `json:"tasks" binding:"dive"`
}

// TaskPayload is a full task as held by the client, used for bulk restore.
type TaskPayload struct {
	ID               string `json:"id" binding:"required"`
	Title            string `json:"title" binding:"required"`
	Date             string `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate          string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Time             string `json:"time" binding:"omitempty,datetime=15:04"`
	Completed        bool   `json:"completed"`
	Priority         string `json:"priority" binding:"omitempty,oneof=normal high"`
	HasAlarm         bool   `json:"hasAlarm"`
	NotifiedUpcoming bool   `json:"notifiedUpcoming"`
	NotifiedDue      bool   `json:"notifiedDue"`
}
