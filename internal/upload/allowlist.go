package upload

// FileType maps an accepted MIME type to its canonical extension.
type FileType struct {
	ContentType string
	Extension   string
}

// AllowedTypes is the closed set of content types the upload endpoint accepts.
var AllowedTypes = []FileType{
	{"application/pdf", ".pdf"},
	{"text/plain", ".txt"},
	{"application/rtf", ".rtf"},
	{"text/markdown", ".md"},
	{"text/x-markdown", ".md"},
	{"application/vnd.ms-excel", ".xls"},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	{"application/vnd.ms-powerpoint", ".ppt"},
	{"application/vnd.openxmlformats-officedocument.presentationml.presentation", ".pptx"},
	{"text/csv", ".csv"},
	{"application/msword", ".doc"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
}

var extensions = func() map[string]string {
	m := make(map[string]string, len(AllowedTypes))
	for _, ft := range AllowedTypes {
		m[ft.ContentType] = ft.Extension
	}
	return m
}()

// Extension returns the canonical extension for an allowed content type.
func Extension(contentType string) (string, bool) {
	ext, ok := extensions[contentType]
	return ext, ok
}

// AllowedContentTypes lists the accepted content types in declaration order.
func AllowedContentTypes() []string {
	out := make([]string, len(AllowedTypes))
	for i, ft := range AllowedTypes {
		out[i] = ft.ContentType
	}
	return out
}
