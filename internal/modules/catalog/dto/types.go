package dto

type ImportInput struct {
	Path        string
	Title       string
	Author      string
	Year        int
	Genre       string
	Description string
}

type BookOutput struct {
	ID              string
	Title           string
	Author          string
	Year            int
	Genre           string
	Description     string
	TotalCharacters int
	HasContent      bool
}
