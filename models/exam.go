package models

type Exam struct {
	ID        string `json:"id"` // EXAM001, EXAM002...
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	FormLink  string `json:"formLink"` // link Google Form bên ngoài
	CreatedAt string `json:"createdAt"`
}
