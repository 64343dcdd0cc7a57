package models

// Chapter thuộc về đúng một course.
type Chapter struct {
	ID       string `json:"id"` // CH<number>, ví dụ CH3.1.2
	Number   string `json:"number"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl,omitempty"`
}

type Course struct {
	ID              string    `json:"id"` // COURSE001, COURSE002...
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"coverImage"`
	PDFDownloadLink string    `json:"pdfDownloadLink"`
	Chapters        []Chapter `json:"chapters"`
	CreatedAt       string    `json:"createdAt"`
}
