package dto

type ReadingOutput struct {
	Steps     int
	Date      string
	Estimated bool
}

type ProviderOutput struct {
	Name   string
	Binary string
}

type MetadataOutput struct {
	Name    string
	Version string
}
