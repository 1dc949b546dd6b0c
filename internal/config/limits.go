package config

const (
	// MaxPageTitleLength bounds page titles to fit VARCHAR(255).
	MaxPageTitleLength = 255

	// MaxPropertyNameLength bounds database column names.
	MaxPropertyNameLength = 100

	// MaxViewNameLength bounds saved view names.
	MaxViewNameLength = 100

	// MaxSelectOptions caps the choices of one select property.
	MaxSelectOptions = 100

	// MaxBlocksPerPage caps a single block snapshot.
	MaxBlocksPerPage = 5000
)
