// internal/app/features/catalog/upload_field.go
package catalog

import (
	"mime/multipart"
	"net/http"
)

// fileFieldName is the multipart field every form uses for its file.
const fileFieldName = "file"

func firstFile(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	fhs := r.MultipartForm.File[fileFieldName]
	if len(fhs) == 0 || fhs[0].Size == 0 {
		return nil
	}
	return fhs[0]
}
